package unload

import "sort"

// formatExclusions lists, per FORMAT, the options that may not be active with it.
// Order is the order violations are reported in.
var formatExclusions = map[Format][]string{
	FormatCSV: {fieldEscape, fieldFixedWidth, fieldAddQuotes},
	FormatParquet: {
		fieldDelimiter,
		fieldFixedWidth,
		fieldAddQuotes,
		fieldEscape,
		fieldNull,
		fieldHeader,
		fieldCompression,
	},
	FormatJSON: {fieldDelimiter, fieldFixedWidth, fieldAddQuotes, fieldEscape, fieldNull},
}

// conflictGroups are sets of options of which at most one may be active.
var conflictGroups = [][]string{
	{fieldCleanPath, fieldAllowOverwrite},
	{fieldFixedWidth, fieldDelimiter},
	{fieldFixedWidth, fieldHeader},
}

// activeChecks reports, per option name, whether the option is active:
// a non-empty string, a true flag or a present nested value.
var activeChecks = map[string]func(o *Options) bool{
	fieldFormat:         func(o *Options) bool { return o.Format != "" },
	fieldDelimiter:      func(o *Options) bool { return nonEmpty(o.Delimiter) },
	fieldFixedWidth:     func(o *Options) bool { return nonEmpty(o.FixedWidth) },
	fieldCompression:    func(o *Options) bool { return o.Compression != "" },
	fieldNull:           func(o *Options) bool { return nonEmpty(o.Null) },
	fieldMaxFileSize:    func(o *Options) bool { return nonEmpty(o.MaxFileSize) },
	fieldRowGroupSize:   func(o *Options) bool { return nonEmpty(o.RowGroupSize) },
	fieldRegion:         func(o *Options) bool { return nonEmpty(o.Region) },
	fieldExtension:      func(o *Options) bool { return nonEmpty(o.Extension) },
	fieldHeader:         func(o *Options) bool { return o.Header },
	fieldAddQuotes:      func(o *Options) bool { return o.AddQuotes },
	fieldEscape:         func(o *Options) bool { return o.Escape },
	fieldAllowOverwrite: func(o *Options) bool { return o.AllowOverwrite },
	fieldCleanPath:      func(o *Options) bool { return o.CleanPath },
	fieldParallel:       func(o *Options) bool { return o.Parallel },
	fieldEncrypted:      func(o *Options) bool { return o.Encrypted },
	fieldPartitionBy:    func(o *Options) bool { return o.PartitionBy != nil },
	fieldManifest:       func(o *Options) bool { return o.Manifest != nil },
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// Active reports whether the named option is active in o.
// Unknown names are never active.
func (o Options) Active(name string) bool {
	check, ok := activeChecks[name]
	if !ok {
		return false
	}
	return check(&o)
}

func (o Options) checkFormatExclusions() error {
	if o.Format == "" {
		return nil
	}

	var violators []string
	for _, name := range formatExclusions[o.Format] {
		if o.Active(name) {
			violators = append(violators, name)
		}
	}
	if len(violators) > 0 {
		return newFormatConflictError(o.Format, violators)
	}
	return nil
}

func (o Options) checkConflictGroups() error {
	for _, group := range conflictGroups {
		var active []string
		for _, name := range group {
			if o.Active(name) {
				active = append(active, name)
			}
		}
		if len(active) > 1 {
			sort.Strings(active)
			return newConflictError(active)
		}
	}
	return nil
}
