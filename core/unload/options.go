package unload

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Option names as they appear in a raw option mapping.
const (
	fieldFormat         = "FORMAT"
	fieldDelimiter      = "DELIMITER"
	fieldFixedWidth     = "FIXEDWIDTH"
	fieldCompression    = "COMPRESSION"
	fieldNull           = "NULL"
	fieldMaxFileSize    = "MAXFILESIZE"
	fieldRowGroupSize   = "ROWGROUPSIZE"
	fieldRegion         = "REGION"
	fieldExtension      = "EXTENSION"
	fieldHeader         = "HEADER"
	fieldAddQuotes      = "ADDQUOTES"
	fieldEscape         = "ESCAPE"
	fieldAllowOverwrite = "ALLOWOVERWRITE"
	fieldCleanPath      = "CLEANPATH"
	fieldParallel       = "PARALLEL"
	fieldEncrypted      = "ENCRYPTED"
	fieldPartitionBy    = "PARTITION_BY"
	fieldManifest       = "MANIFEST"
)

// Format is the file format of unloaded data.
type Format string

const (
	FormatCSV     Format = "CSV"
	FormatParquet Format = "PARQUET"
	FormatJSON    Format = "JSON"
)

// Compression is the compression method applied to unloaded files.
type Compression string

const (
	CompressionGzip  Compression = "GZIP"
	CompressionBzip2 Compression = "BZIP2"
	CompressionZstd  Compression = "ZSTD"
)

var (
	validFormats      = []Format{FormatCSV, FormatParquet, FormatJSON}
	validCompressions = []Compression{CompressionGzip, CompressionBzip2, CompressionZstd}

	fixedWidthPattern = regexp.MustCompile(`^\d+:\d+(,\d+:\d+)*$`)
	regionPattern     = regexp.MustCompile(`^[a-z]+-[a-z]+-\d+$`)

	upper = cases.Upper(language.Und)
)

// PartitionBy configures PARTITION BY.
type PartitionBy struct {
	Columns []string
	Include bool
}

// Manifest configures MANIFEST.
type Manifest struct {
	Enable  bool
	Verbose bool
}

// Options is a validated set of UNLOAD options.
// Optional text options are pointers so that "unset" and "set to empty" stay distinct.
// Values returned by NewOptions are never modified afterwards and are safe to share.
type Options struct {
	Format       Format
	Delimiter    *string
	FixedWidth   *string
	Compression  Compression
	Null         *string
	MaxFileSize  *string
	RowGroupSize *string
	Region       *string
	Extension    *string

	Header         bool
	AddQuotes      bool
	Escape         bool
	AllowOverwrite bool
	CleanPath      bool
	Parallel       bool
	Encrypted      bool

	PartitionBy *PartitionBy
	Manifest    *Manifest
}

// Ptr returns a pointer to v. Handy for filling optional Options fields.
func Ptr[T any](v T) *T {
	return &v
}

type decoder func(o *Options, field string, v any) error

type optionDecoder struct {
	name   string
	decode decoder
}

// decoders lists every accepted option in declaration order.
var decoders = []optionDecoder{
	{fieldFormat, decodeFormat},
	{fieldDelimiter, stringInto(func(o *Options) **string { return &o.Delimiter })},
	{fieldFixedWidth, stringInto(func(o *Options) **string { return &o.FixedWidth })},
	{fieldCompression, decodeCompression},
	{fieldNull, stringInto(func(o *Options) **string { return &o.Null })},
	{fieldMaxFileSize, stringInto(func(o *Options) **string { return &o.MaxFileSize })},
	{fieldRowGroupSize, stringInto(func(o *Options) **string { return &o.RowGroupSize })},
	{fieldRegion, stringInto(func(o *Options) **string { return &o.Region })},
	{fieldExtension, stringInto(func(o *Options) **string { return &o.Extension })},
	{fieldHeader, boolInto(func(o *Options) *bool { return &o.Header })},
	{fieldAddQuotes, boolInto(func(o *Options) *bool { return &o.AddQuotes })},
	{fieldEscape, boolInto(func(o *Options) *bool { return &o.Escape })},
	{fieldAllowOverwrite, boolInto(func(o *Options) *bool { return &o.AllowOverwrite })},
	{fieldCleanPath, boolInto(func(o *Options) *bool { return &o.CleanPath })},
	{fieldParallel, boolInto(func(o *Options) *bool { return &o.Parallel })},
	{fieldEncrypted, boolInto(func(o *Options) *bool { return &o.Encrypted })},
	{fieldPartitionBy, decodePartitionBy},
	{fieldManifest, decodeManifest},
}

var knownFields = func() map[string]struct{} {
	known := make(map[string]struct{}, len(decoders))
	for _, d := range decoders {
		known[d.name] = struct{}{}
	}
	return known
}()

// Fields returns the accepted option names in declaration order.
func Fields() []string {
	names := make([]string, len(decoders))
	for i, d := range decoders {
		names[i] = d.name
	}
	return names
}

// NewOptions builds a validated option set from a raw name -> value mapping.
// FORMAT and COMPRESSION are uppercased before validation. A nil value is
// treated as an absent option.
func NewOptions(raw map[string]any) (Options, error) {
	var unknown []string
	for key := range raw {
		if _, ok := knownFields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Options{}, newUnknownFieldsError(unknown)
	}

	var o Options
	for _, d := range decoders {
		v, ok := raw[d.name]
		if !ok || v == nil {
			continue
		}
		if err := d.decode(&o, d.name, v); err != nil {
			return Options{}, err
		}
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// Validate checks every field on its own, then the cross-field rules.
func (o Options) Validate() error {
	if err := o.validateFields(); err != nil {
		return err
	}
	if err := o.checkFormatExclusions(); err != nil {
		return err
	}
	return o.checkConflictGroups()
}

func (o Options) validateFields() error {
	if o.Format != "" && !slices.Contains(validFormats, o.Format) {
		return newFieldError(fieldFormat, "must be one of %s, got %q", joinEnum(validFormats), o.Format)
	}

	if o.Delimiter != nil && utf8.RuneCountInString(*o.Delimiter) != 1 {
		return newFieldError(fieldDelimiter, "must be exactly 1 character, got %q", *o.Delimiter)
	}

	if o.FixedWidth != nil {
		if utf8.RuneCountInString(*o.FixedWidth) < 3 {
			return newFieldError(fieldFixedWidth, "must be at least 3 characters, got %q", *o.FixedWidth)
		}
		if !fixedWidthPattern.MatchString(*o.FixedWidth) {
			return newFieldError(fieldFixedWidth,
				"must be in format 'colID1:colWidth1,colID2:colWidth2, ...' (e.g., '0:3,1:100,2:30'), got %q", *o.FixedWidth)
		}
	}

	if o.Compression != "" && !slices.Contains(validCompressions, o.Compression) {
		return newFieldError(fieldCompression, "must be one of %s, got %q", joinEnum(validCompressions), o.Compression)
	}

	if o.Region != nil {
		if utf8.RuneCountInString(*o.Region) < 5 {
			return newFieldError(fieldRegion, "must be at least 5 characters, got %q", *o.Region)
		}
		if !regionPattern.MatchString(*o.Region) {
			return newFieldError(fieldRegion, "must be a valid AWS region format (e.g., us-east-1), got %q", *o.Region)
		}
	}

	if o.Extension != nil && strings.HasPrefix(*o.Extension, ".") {
		return newFieldError(fieldExtension, "should not start with a dot, got %q", *o.Extension)
	}

	if o.PartitionBy != nil {
		if len(o.PartitionBy.Columns) == 0 {
			return newFieldError(fieldPartitionBy, "columns list cannot be empty")
		}
		for _, col := range o.PartitionBy.Columns {
			if strings.TrimSpace(col) == "" {
				return newFieldError(fieldPartitionBy, "columns must be non-empty strings")
			}
		}
	}

	return nil
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

// -------------------- Decoding --------------------

func decodeFormat(o *Options, field string, v any) error {
	s, err := enumString(field, v)
	if err != nil {
		return err
	}
	if s == "" {
		return newFieldError(field, "must be one of %s", joinEnum(validFormats))
	}
	o.Format = Format(s)
	return nil
}

func decodeCompression(o *Options, field string, v any) error {
	s, err := enumString(field, v)
	if err != nil {
		return err
	}
	if s == "" {
		return newFieldError(field, "must be one of %s", joinEnum(validCompressions))
	}
	o.Compression = Compression(s)
	return nil
}

// enumString accepts text values and folds them to upper case.
func enumString(field string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return upper.String(val), nil
	case Format:
		return upper.String(string(val)), nil
	case Compression:
		return upper.String(string(val)), nil
	default:
		return "", newFieldError(field, "must be a string, got %T", v)
	}
}

func stringInto(target func(o *Options) **string) decoder {
	return func(o *Options, field string, v any) error {
		s, ok := v.(string)
		if !ok {
			return newFieldError(field, "must be a string, got %T", v)
		}
		*target(o) = &s
		return nil
	}
}

func boolInto(target func(o *Options) *bool) decoder {
	return func(o *Options, field string, v any) error {
		b, err := toBool(field, v)
		if err != nil {
			return err
		}
		*target(o) = b
		return nil
	}
}

var boolWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

// ParseBool converts the boolean spellings accepted for flag options:
// a bool, 0 or 1, or true/false, yes/no, on/off, t/f, y/n in any case.
func ParseBool(field string, v any) (bool, error) {
	return toBool(field, v)
}

func toBool(field string, v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		if b, ok := boolWords[strings.ToLower(strings.TrimSpace(val))]; ok {
			return b, nil
		}
		return false, newFieldError(field, "must be a boolean, got %q", val)
	case int:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	case int64:
		if val == 0 || val == 1 {
			return val == 1, nil
		}
	}
	return false, newFieldError(field, "must be a boolean, got %v", v)
}

func decodePartitionBy(o *Options, field string, v any) error {
	switch val := v.(type) {
	case PartitionBy:
		o.PartitionBy = &PartitionBy{Columns: slices.Clone(val.Columns), Include: val.Include}
		return nil
	case *PartitionBy:
		o.PartitionBy = &PartitionBy{Columns: slices.Clone(val.Columns), Include: val.Include}
		return nil
	case map[string]any:
		p := &PartitionBy{}
		cols, ok := val["columns"]
		if !ok || cols == nil {
			return newFieldError(field, "columns list cannot be empty")
		}
		columns, err := toStringList(field, cols)
		if err != nil {
			return err
		}
		p.Columns = columns
		if inc, ok := val["include"]; ok && inc != nil {
			if p.Include, err = toBool(field+".include", inc); err != nil {
				return err
			}
		}
		o.PartitionBy = p
		return nil
	default:
		return newFieldError(field, "must be a mapping with columns and include, got %T", v)
	}
}

func toStringList(field string, v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		return slices.Clone(val), nil
	case []any:
		out := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, newFieldError(field, "columns must be non-empty strings")
			}
			out[i] = s
		}
		return out, nil
	default:
		return nil, newFieldError(field, "columns must be a list of strings, got %T", v)
	}
}

func decodeManifest(o *Options, field string, v any) error {
	switch val := v.(type) {
	case Manifest:
		o.Manifest = &val
		return nil
	case *Manifest:
		m := *val
		o.Manifest = &m
		return nil
	case map[string]any:
		m := &Manifest{}
		var err error
		if enable, ok := val["enable"]; ok && enable != nil {
			if m.Enable, err = toBool(field+".enable", enable); err != nil {
				return err
			}
		}
		if verbose, ok := val["verbose"]; ok && verbose != nil {
			if m.Verbose, err = toBool(field+".verbose", verbose); err != nil {
				return err
			}
		}
		o.Manifest = m
		return nil
	default:
		return newFieldError(field, "must be a mapping with enable and verbose, got %T", v)
	}
}

// clone returns a deep copy of o.
func (o Options) clone() Options {
	c := o
	for _, p := range []**string{&c.Delimiter, &c.FixedWidth, &c.Null, &c.MaxFileSize, &c.RowGroupSize, &c.Region, &c.Extension} {
		*p = clonePtr(*p)
	}
	if o.PartitionBy != nil {
		c.PartitionBy = &PartitionBy{Columns: slices.Clone(o.PartitionBy.Columns), Include: o.PartitionBy.Include}
	}
	c.Manifest = clonePtr(o.Manifest)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (f Format) String() string { return string(f) }

func (c Compression) String() string { return string(c) }

