package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fbz-tec/pgxunload/core/jobs"
	"github.com/fbz-tec/pgxunload/core/unload"
	"github.com/fbz-tec/pgxunload/core/validation"
	"github.com/fbz-tec/pgxunload/internal/logger"
	"github.com/spf13/cobra"
)

// unloadFlags describes an UNLOAD statement on the command line, either
// flag by flag or through a job file.
type unloadFlags struct {
	jobFile string

	sqlQuery    string
	sqlFile     string
	params      []string
	toPath      string
	iamRoles    []string
	defaultRole bool

	format           string
	partitionBy      []string
	partitionInclude bool
	manifest         bool
	manifestVerbose  bool
	header           bool
	delimiter        string
	fixedWidth       string
	compression      string
	encrypted        bool
	addQuotes        bool
	nullAs           string
	escape           bool
	allowOverwrite   bool
	cleanPath        bool
	parallel         string
	maxFileSize      string
	rowGroupSize     string
	region           string
	extension        string
}

// statementFlags are the flags a job file replaces.
var statementFlags = []string{"sql", "sqlfile", "param", "to", "iam-role", "default-role"}

func (f *unloadFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.StringVarP(&f.jobFile, "job", "j", "", "Path to a YAML job file describing the UNLOAD")

	// Statement parts
	fs.StringVarP(&f.sqlQuery, "sql", "s", "", "SELECT query to unload; may contain %(name)s placeholders")
	fs.StringVarP(&f.sqlFile, "sqlfile", "F", "", "Path to a file containing the SELECT query")
	fs.StringArrayVar(&f.params, "param", nil, "Query parameter as name=value (repeatable)")
	fs.StringVarP(&f.toPath, "to", "t", "", "Destination S3 prefix (s3://bucket/prefix/)")
	fs.StringArrayVar(&f.iamRoles, "iam-role", nil, "IAM role as ACCOUNT:ROLE or a role ARN (repeatable, chained in order)")
	fs.BoolVar(&f.defaultRole, "default-role", false, "Use the cluster's default IAM role")

	// UNLOAD options
	fs.StringVarP(&f.format, "format", "f", "", "File format: CSV, PARQUET or JSON")
	fs.StringSliceVar(&f.partitionBy, "partition-by", nil, "Partition columns (comma separated)")
	fs.BoolVar(&f.partitionInclude, "partition-include", false, "Keep partition columns in the unloaded files")
	fs.BoolVar(&f.manifest, "manifest", false, "Write a manifest file")
	fs.BoolVar(&f.manifestVerbose, "manifest-verbose", false, "Write a verbose manifest")
	fs.BoolVar(&f.header, "header", false, "Add a header line to text files")
	fs.StringVarP(&f.delimiter, "delimiter", "D", "", "Single-character field delimiter")
	fs.StringVar(&f.fixedWidth, "fixedwidth", "", "Fixed-width column spec, e.g. 0:3,1:100")
	fs.StringVarP(&f.compression, "compression", "z", "", "File compression: GZIP, BZIP2 or ZSTD")
	fs.BoolVar(&f.encrypted, "encrypted", false, "Encrypt files client-side")
	fs.BoolVar(&f.addQuotes, "add-quotes", false, "Quote every unloaded field")
	fs.StringVar(&f.nullAs, "null", "", "String written for NULL values")
	fs.BoolVar(&f.escape, "escape", false, "Escape delimiters, quotes and newlines in text files")
	fs.BoolVar(&f.allowOverwrite, "allow-overwrite", false, "Overwrite existing files at the destination")
	fs.BoolVar(&f.cleanPath, "cleanpath", false, "Remove existing files at the destination first")
	fs.StringVar(&f.parallel, "parallel", "", "ON or OFF (default OFF)")
	fs.StringVar(&f.maxFileSize, "max-file-size", "", "Maximum file size, e.g. '100 MB'")
	fs.StringVar(&f.rowGroupSize, "row-group-size", "", "Parquet row group size, e.g. '128 MB'")
	fs.StringVar(&f.region, "region", "", "AWS region of the destination bucket")
	fs.StringVar(&f.extension, "extension", "", "File extension without the leading dot")
}

// optionFlags applies changed option flags to a builder, in this order.
var optionFlags = []struct {
	name  string
	apply func(f *unloadFlags, b *unload.Builder)
}{
	{"format", func(f *unloadFlags, b *unload.Builder) { b.SetFormat(f.format) }},
	{"partition-by", func(f *unloadFlags, b *unload.Builder) { b.SetPartitionBy(f.partitionBy, f.partitionInclude) }},
	{"manifest", func(f *unloadFlags, b *unload.Builder) { b.SetManifest(f.manifest, f.manifestVerbose) }},
	{"header", func(f *unloadFlags, b *unload.Builder) { b.SetHeader(f.header) }},
	{"delimiter", func(f *unloadFlags, b *unload.Builder) { b.SetDelimiter(f.delimiter) }},
	{"fixedwidth", func(f *unloadFlags, b *unload.Builder) { b.SetFixedWidth(f.fixedWidth) }},
	{"compression", func(f *unloadFlags, b *unload.Builder) { b.SetCompression(strings.ToUpper(f.compression)) }},
	{"encrypted", func(f *unloadFlags, b *unload.Builder) { b.SetEncrypted(f.encrypted) }},
	{"add-quotes", func(f *unloadFlags, b *unload.Builder) { b.SetAddQuotes(f.addQuotes) }},
	{"null", func(f *unloadFlags, b *unload.Builder) { b.SetNull(f.nullAs) }},
	{"escape", func(f *unloadFlags, b *unload.Builder) { b.SetEscape(f.escape) }},
	{"allow-overwrite", func(f *unloadFlags, b *unload.Builder) { b.SetAllowOverwrite(f.allowOverwrite) }},
	{"cleanpath", func(f *unloadFlags, b *unload.Builder) { b.SetCleanPath(f.cleanPath) }},
	{"parallel", func(f *unloadFlags, b *unload.Builder) { b.SetParallel(f.parallel) }},
	{"max-file-size", func(f *unloadFlags, b *unload.Builder) { b.SetMaxFileSize(f.maxFileSize) }},
	{"row-group-size", func(f *unloadFlags, b *unload.Builder) { b.SetRowGroupSize(f.rowGroupSize) }},
	{"region", func(f *unloadFlags, b *unload.Builder) { b.SetRegion(f.region) }},
	{"extension", func(f *unloadFlags, b *unload.Builder) { b.SetExtension(f.extension) }},
}

// statement builds the UNLOAD statement described by the flags.
func (f *unloadFlags) statement(cmd *cobra.Command) (*unload.Statement, error) {
	b, err := f.builder(cmd)
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func (f *unloadFlags) builder(cmd *cobra.Command) (*unload.Builder, error) {
	changed := cmd.Flags().Changed

	if changed("partition-include") && !changed("partition-by") {
		return nil, fmt.Errorf("--partition-include requires --partition-by")
	}
	if changed("manifest-verbose") && !changed("manifest") {
		return nil, fmt.Errorf("--manifest-verbose requires --manifest")
	}

	var b *unload.Builder
	if f.jobFile != "" {
		for _, name := range statementFlags {
			if changed(name) {
				return nil, fmt.Errorf("--%s cannot be combined with --job", name)
			}
		}
		job, err := jobs.Load(f.jobFile)
		if err != nil {
			return nil, err
		}
		if b, err = job.Builder(); err != nil {
			return nil, fmt.Errorf("job %s: %w", job.Name, err)
		}
		logger.Debug("Loaded job %q with %d option(s)", job.Name, job.Options.Len())
	} else {
		var err error
		if b, err = f.statementParts(); err != nil {
			return nil, err
		}
	}

	for _, opt := range optionFlags {
		if changed(opt.name) {
			logger.Debug("Applying --%s", opt.name)
			opt.apply(f, b)
		}
	}
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (f *unloadFlags) statementParts() (*unload.Builder, error) {
	switch {
	case f.sqlQuery == "" && f.sqlFile == "":
		return nil, fmt.Errorf("either --sql, --sqlfile or --job must be provided")
	case f.sqlQuery != "" && f.sqlFile != "":
		return nil, fmt.Errorf("cannot use both --sql and --sqlfile at the same time")
	}

	query := f.sqlQuery
	if f.sqlFile != "" {
		logger.Debug("Reading SQL from file: %s", f.sqlFile)
		content, err := os.ReadFile(f.sqlFile)
		if err != nil {
			return nil, fmt.Errorf("error reading SQL file: %w", err)
		}
		query = strings.TrimSpace(string(content))
		query = strings.TrimSuffix(query, ";")
	}
	if err := validation.ValidateSelectTemplate(query); err != nil {
		return nil, err
	}

	if err := validation.ValidateDestination(f.toPath); err != nil {
		return nil, fmt.Errorf("--to: %w", err)
	}

	params, err := parseParams(f.params)
	if err != nil {
		return nil, err
	}

	b := unload.NewBuilder().
		AddSelectTemplate(query).
		AddSelectParams(params).
		AddToPath(f.toPath)

	switch {
	case f.defaultRole && len(f.iamRoles) > 0:
		return nil, fmt.Errorf("cannot use both --iam-role and --default-role")
	case f.defaultRole:
		b.AddDefaultAuthorization()
	case len(f.iamRoles) > 0:
		roles := make([]unload.IAMRole, len(f.iamRoles))
		for i, spec := range f.iamRoles {
			if roles[i], err = parseRole(spec); err != nil {
				return nil, err
			}
		}
		b.AddIAMRoleAuthorization(roles...)
	default:
		return nil, fmt.Errorf("either --iam-role or --default-role must be provided")
	}
	return b, nil
}

// parseParams turns name=value pairs into bind parameters.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", pair)
		}
		if _, dup := params[name]; dup {
			return nil, fmt.Errorf("--param %q given more than once", name)
		}
		params[name] = value
	}
	return params, nil
}

// parseRole accepts ACCOUNT:ROLE or arn:aws:iam::ACCOUNT:role/ROLE.
func parseRole(spec string) (unload.IAMRole, error) {
	rest := strings.TrimPrefix(spec, "arn:aws:iam::")
	account, role, ok := strings.Cut(rest, ":")
	if !ok {
		return unload.IAMRole{}, fmt.Errorf("invalid --iam-role %q, expected ACCOUNT:ROLE", spec)
	}
	role = strings.TrimPrefix(role, "role/")

	if err := validation.ValidateAccountID(account); err != nil {
		return unload.IAMRole{}, fmt.Errorf("--iam-role %q: %w", spec, err)
	}
	if err := validation.ValidateRoleName(role); err != nil {
		return unload.IAMRole{}, fmt.Errorf("--iam-role %q: %w", spec, err)
	}
	return unload.IAMRole{AccountID: account, RoleName: role}, nil
}
