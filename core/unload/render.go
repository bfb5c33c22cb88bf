package unload

import (
	"fmt"
	"strings"
)

// Clauses returns one line per rendered option, in the order the UNLOAD
// grammar documents them. PARALLEL is always present.
func (o Options) Clauses() []string {
	var clauses []string

	if o.PartitionBy != nil {
		clause := fmt.Sprintf("PARTITION BY (%s)", strings.Join(o.PartitionBy.Columns, ","))
		if o.PartitionBy.Include {
			clause += " INCLUDE"
		}
		clauses = append(clauses, clause)
	}

	if o.Format != "" {
		clauses = append(clauses, "FORMAT AS "+string(o.Format))
	}

	// File format options
	if o.Delimiter != nil {
		clauses = append(clauses, fmt.Sprintf("DELIMITER AS '%s'", *o.Delimiter))
	}
	if o.FixedWidth != nil {
		clauses = append(clauses, fmt.Sprintf("FIXEDWIDTH '%s'", *o.FixedWidth))
	}
	if o.Header {
		clauses = append(clauses, "HEADER")
	}
	if o.AddQuotes {
		clauses = append(clauses, "ADDQUOTES")
	}
	if o.Null != nil {
		clauses = append(clauses, fmt.Sprintf("NULL AS '%s'", *o.Null))
	}
	if o.Escape {
		clauses = append(clauses, "ESCAPE")
	}

	if o.Compression != "" {
		clauses = append(clauses, string(o.Compression))
	}

	if o.Encrypted {
		clauses = append(clauses, "ENCRYPTED")
	}
	if o.AllowOverwrite {
		clauses = append(clauses, "ALLOWOVERWRITE")
	}
	if o.CleanPath {
		clauses = append(clauses, "CLEANPATH")
	}
	if o.Parallel {
		clauses = append(clauses, "PARALLEL ON")
	} else {
		clauses = append(clauses, "PARALLEL OFF")
	}

	if o.Manifest != nil && o.Manifest.Enable {
		if o.Manifest.Verbose {
			clauses = append(clauses, "MANIFEST VERBOSE")
		} else {
			clauses = append(clauses, "MANIFEST")
		}
	}

	// Empty free-form values are skipped.
	if nonEmpty(o.MaxFileSize) {
		clauses = append(clauses, "MAXFILESIZE "+*o.MaxFileSize)
	}
	if nonEmpty(o.RowGroupSize) {
		clauses = append(clauses, "ROWGROUPSIZE "+*o.RowGroupSize)
	}
	if nonEmpty(o.Region) {
		clauses = append(clauses, fmt.Sprintf("REGION '%s'", *o.Region))
	}
	if nonEmpty(o.Extension) {
		clauses = append(clauses, fmt.Sprintf("EXTENSION '%s'", *o.Extension))
	}

	return clauses
}

// String renders the option block, one clause per line.
func (o Options) String() string {
	return strings.Join(o.Clauses(), "\n")
}
