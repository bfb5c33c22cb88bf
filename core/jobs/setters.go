package jobs

import (
	"fmt"
	"strings"

	"github.com/fbz-tec/pgxunload/core/unload"
)

type setter func(b *unload.Builder, v any) error

// setters maps option names to builder calls. Values are converted from
// what the YAML decoder produces.
var setters = map[string]setter{
	"FORMAT":         stringSetter(func(b *unload.Builder, s string) { b.SetFormat(s) }),
	"DELIMITER":      stringSetter(func(b *unload.Builder, s string) { b.SetDelimiter(s) }),
	"FIXEDWIDTH":     stringSetter(func(b *unload.Builder, s string) { b.SetFixedWidth(s) }),
	"NULL":           stringSetter(func(b *unload.Builder, s string) { b.SetNull(s) }),
	"MAXFILESIZE":    stringSetter(func(b *unload.Builder, s string) { b.SetMaxFileSize(s) }),
	"ROWGROUPSIZE":   stringSetter(func(b *unload.Builder, s string) { b.SetRowGroupSize(s) }),
	"REGION":         stringSetter(func(b *unload.Builder, s string) { b.SetRegion(s) }),
	"EXTENSION":      stringSetter(func(b *unload.Builder, s string) { b.SetExtension(s) }),
	"HEADER":         boolSetter("HEADER", (*unload.Builder).SetHeader),
	"ENCRYPTED":      boolSetter("ENCRYPTED", (*unload.Builder).SetEncrypted),
	"ADDQUOTES":      boolSetter("ADDQUOTES", (*unload.Builder).SetAddQuotes),
	"ESCAPE":         boolSetter("ESCAPE", (*unload.Builder).SetEscape),
	"ALLOWOVERWRITE": boolSetter("ALLOWOVERWRITE", (*unload.Builder).SetAllowOverwrite),
	"CLEANPATH":      boolSetter("CLEANPATH", (*unload.Builder).SetCleanPath),
	"COMPRESSION": stringSetter(func(b *unload.Builder, s string) {
		b.SetCompression(strings.ToUpper(s))
	}),
	"PARALLEL":     setParallel,
	"PARTITION_BY": setPartitionBy,
	"MANIFEST":     setManifest,
}

// textOptions take a free-form string value.
var textOptions = map[string]bool{
	"FORMAT":       true,
	"DELIMITER":    true,
	"FIXEDWIDTH":   true,
	"NULL":         true,
	"MAXFILESIZE":  true,
	"ROWGROUPSIZE": true,
	"REGION":       true,
	"EXTENSION":    true,
	"COMPRESSION":  true,
}

func stringSetter(apply func(b *unload.Builder, s string)) setter {
	return func(b *unload.Builder, v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be a string, got %T", v)
		}
		apply(b, s)
		return nil
	}
}

func boolSetter(field string, apply func(b *unload.Builder, enable bool) *unload.Builder) setter {
	return func(b *unload.Builder, v any) error {
		enable, err := unload.ParseBool(field, v)
		if err != nil {
			return err
		}
		apply(b, enable)
		return nil
	}
}

func setParallel(b *unload.Builder, v any) error {
	switch v.(type) {
	case bool, string:
		b.SetParallel(v)
		return nil
	}
	return fmt.Errorf("must be a boolean or ON/OFF, got %v", v)
}

// partition_by: {columns: [...], include: bool}
func setPartitionBy(b *unload.Builder, v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("must be a mapping with columns and include")
	}

	list, ok := m["columns"].([]any)
	if !ok || len(list) == 0 {
		return fmt.Errorf("columns must be a non-empty list")
	}
	columns := make([]string, len(list))
	for i, c := range list {
		s, ok := c.(string)
		if !ok {
			return fmt.Errorf("columns[%d] must be a string, got %v", i, c)
		}
		columns[i] = s
	}

	include := false
	if raw, ok := m["include"]; ok {
		var err error
		if include, err = unload.ParseBool("PARTITION_BY.include", raw); err != nil {
			return err
		}
	}

	b.SetPartitionBy(columns, include)
	return nil
}

// manifest: true, or {enable: bool, verbose: bool} where enable defaults to true.
func setManifest(b *unload.Builder, v any) error {
	if m, ok := v.(map[string]any); ok {
		enable, verbose := true, false
		var err error
		if raw, ok := m["enable"]; ok {
			if enable, err = unload.ParseBool("MANIFEST.enable", raw); err != nil {
				return err
			}
		}
		if raw, ok := m["verbose"]; ok {
			if verbose, err = unload.ParseBool("MANIFEST.verbose", raw); err != nil {
				return err
			}
		}
		b.SetManifest(enable, verbose)
		return nil
	}

	enable, err := unload.ParseBool("MANIFEST", v)
	if err != nil {
		return err
	}
	b.SetManifest(enable, false)
	return nil
}
