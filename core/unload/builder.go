package unload

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/fbz-tec/pgxunload/internal/logger"
)

const defaultAuthorization = "IAM_ROLE default"

// IAMRole identifies a role the cluster assumes to write to the destination.
type IAMRole struct {
	AccountID string
	RoleName  string
}

// ARN returns arn:aws:iam::<account>:role/<role>.
func (r IAMRole) ARN() string {
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", r.AccountID, r.RoleName)
}

// Builder accumulates the parts of an UNLOAD statement.
//
// Every setter may be called at most once per Builder. The first error is
// kept and returned by Err and Build; once an error is recorded the
// remaining setters do nothing. A Builder is not safe for concurrent use.
type Builder struct {
	selectTemplate string
	selectParams   map[string]any
	toPath         string
	authorization  string
	options        *orderedmap.OrderedMap[string, any]

	hasTemplate bool
	hasPath     bool

	called map[string]struct{}
	err    error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		selectParams: map[string]any{},
		options:      orderedmap.NewOrderedMap[string, any](),
		called:       map[string]struct{}{},
	}
}

// once records a call to method. It returns false when the builder already
// failed or method was called before; in the latter case the error is kept.
func (b *Builder) once(method string) bool {
	if b.err != nil {
		return false
	}
	if _, ok := b.called[method]; ok {
		b.err = newAlreadyCalledError(method)
		return false
	}
	b.called[method] = struct{}{}
	return true
}

func (b *Builder) fail(method, format string, args ...any) *Builder {
	b.err = &UsageError{Method: method, Msg: fmt.Sprintf(format, args...)}
	return b
}

// Err returns the first error recorded by a setter, if any.
func (b *Builder) Err() error { return b.err }

// -------------------- Statement parts --------------------

func (b *Builder) AddSelectTemplate(selectTemplate string) *Builder {
	if b.once("AddSelectTemplate") {
		b.selectTemplate = selectTemplate
		b.hasTemplate = true
	}
	return b
}

func (b *Builder) AddSelectParams(params map[string]any) *Builder {
	if b.once("AddSelectParams") {
		b.selectParams = maps.Clone(params)
		if b.selectParams == nil {
			b.selectParams = map[string]any{}
		}
	}
	return b
}

// AddToPath sets the target S3 path.
func (b *Builder) AddToPath(toPath string) *Builder {
	if b.once("AddToPath") {
		b.toPath = toPath
		b.hasPath = true
	}
	return b
}

// AddIAMRoleAuthorization authorizes with one or more chained IAM roles, in order.
func (b *Builder) AddIAMRoleAuthorization(roles ...IAMRole) *Builder {
	const method = "AddIAMRoleAuthorization"
	if b.err != nil {
		return b
	}
	if b.authorization != "" {
		return b.fail(method, "authorization is already set")
	}
	if len(roles) == 0 {
		return b.fail(method, "at least one IAM role is required")
	}

	arns := make([]string, len(roles))
	for i, role := range roles {
		arns[i] = role.ARN()
	}
	b.authorization = "IAM_ROLE " + strings.Join(arns, ", ")
	return b
}

// AddDefaultAuthorization uses the cluster's default IAM role.
func (b *Builder) AddDefaultAuthorization() *Builder {
	if b.err != nil {
		return b
	}
	if b.authorization != "" {
		return b.fail("AddDefaultAuthorization", "authorization is already set")
	}
	b.authorization = defaultAuthorization
	return b
}

// -------------------- Options --------------------

func (b *Builder) set(method, field string, value any) *Builder {
	if b.once(method) {
		b.options.Set(field, value)
	}
	return b
}

func (b *Builder) SetFormat(format string) *Builder {
	return b.set("SetFormat", fieldFormat, format)
}

func (b *Builder) SetPartitionBy(columns []string, include bool) *Builder {
	return b.set("SetPartitionBy", fieldPartitionBy, PartitionBy{
		Columns: slices.Clone(columns),
		Include: include,
	})
}

func (b *Builder) SetManifest(enable, verbose bool) *Builder {
	return b.set("SetManifest", fieldManifest, Manifest{Enable: enable, Verbose: verbose})
}

func (b *Builder) SetHeader(enable bool) *Builder {
	return b.set("SetHeader", fieldHeader, enable)
}

// SetCompression accepts GZIP, BZIP2 or ZSTD, exactly as spelled.
func (b *Builder) SetCompression(compression string) *Builder {
	const method = "SetCompression"
	if !b.once(method) {
		return b
	}
	if !slices.Contains(validCompressions, Compression(compression)) {
		return b.fail(method, "invalid compression: %s", compression)
	}
	b.options.Set(fieldCompression, compression)
	return b
}

func (b *Builder) SetDelimiter(delimiter string) *Builder {
	return b.set("SetDelimiter", fieldDelimiter, delimiter)
}

func (b *Builder) SetFixedWidth(spec string) *Builder {
	return b.set("SetFixedWidth", fieldFixedWidth, spec)
}

func (b *Builder) SetEncrypted(enable bool) *Builder {
	return b.set("SetEncrypted", fieldEncrypted, enable)
}

func (b *Builder) SetAddQuotes(enable bool) *Builder {
	return b.set("SetAddQuotes", fieldAddQuotes, enable)
}

func (b *Builder) SetNull(nullString string) *Builder {
	return b.set("SetNull", fieldNull, nullString)
}

func (b *Builder) SetEscape(enable bool) *Builder {
	return b.set("SetEscape", fieldEscape, enable)
}

func (b *Builder) SetAllowOverwrite(enable bool) *Builder {
	return b.set("SetAllowOverwrite", fieldAllowOverwrite, enable)
}

func (b *Builder) SetCleanPath(enable bool) *Builder {
	return b.set("SetCleanPath", fieldCleanPath, enable)
}

// SetParallel accepts a bool or one of ON, OFF, TRUE, FALSE in any case.
// The value is stored as "ON" or "OFF".
func (b *Builder) SetParallel(parallel any) *Builder {
	const method = "SetParallel"
	if !b.once(method) {
		return b
	}

	var value string
	switch v := parallel.(type) {
	case bool:
		value = "OFF"
		if v {
			value = "ON"
		}
	case string:
		switch strings.ToUpper(v) {
		case "ON", "TRUE":
			value = "ON"
		case "OFF", "FALSE":
			value = "OFF"
		default:
			return b.fail(method, "invalid parallel value: %s", v)
		}
	default:
		return b.fail(method, "invalid parallel value: %v", parallel)
	}

	b.options.Set(fieldParallel, value)
	return b
}

func (b *Builder) SetMaxFileSize(size string) *Builder {
	return b.set("SetMaxFileSize", fieldMaxFileSize, size)
}

func (b *Builder) SetRowGroupSize(size string) *Builder {
	return b.set("SetRowGroupSize", fieldRowGroupSize, size)
}

func (b *Builder) SetRegion(region string) *Builder {
	return b.set("SetRegion", fieldRegion, region)
}

func (b *Builder) SetExtension(extension string) *Builder {
	return b.set("SetExtension", fieldExtension, extension)
}

// -------------------- Accessors --------------------

// RawOptions returns a copy of the options collected so far, keyed by option name.
func (b *Builder) RawOptions() map[string]any {
	raw := make(map[string]any, b.options.Len())
	for k, v := range b.options.AllFromFront() {
		raw[k] = v
	}
	return raw
}

// OptionNames returns the names of the options set so far, in call order.
func (b *Builder) OptionNames() []string {
	return slices.Collect(b.options.Keys())
}

// -------------------- Build --------------------

// Build validates the collected options and returns the finished statement.
// A missing select template, destination or authorization is reported as a
// *PreconditionError; option problems as a *SchemaError.
func (b *Builder) Build() (*Statement, error) {
	if b.err != nil {
		return nil, b.err
	}

	switch {
	case !b.hasTemplate:
		return nil, &PreconditionError{Missing: "select template", Method: "AddSelectTemplate"}
	case !b.hasPath:
		return nil, &PreconditionError{Missing: "destination path", Method: "AddToPath"}
	case b.authorization == "":
		return nil, &PreconditionError{Missing: "authorization", Method: "AddDefaultAuthorization"}
	}

	logger.Debug("Validating %d UNLOAD option(s): %s", b.options.Len(), strings.Join(b.OptionNames(), ", "))

	options, err := NewOptions(b.RawOptions())
	if err != nil {
		return nil, err
	}

	return NewStatement(b.selectTemplate, b.selectParams, b.toPath, b.authorization, options), nil
}

// MustBuild is like Build but panics on error. Use it where a missing part
// is a programming error rather than bad input.
func (b *Builder) MustBuild() *Statement {
	st, err := b.Build()
	if err != nil {
		panic(err)
	}
	return st
}
