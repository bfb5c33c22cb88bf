package unload

import (
	"testing"
)

func TestOptionsString(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
		want string
	}{
		{
			name: "defaults",
			raw:  map[string]any{},
			want: "PARALLEL OFF",
		},
		{
			name: "csv",
			raw:  map[string]any{"FORMAT": "CSV"},
			want: "FORMAT AS CSV\nPARALLEL OFF",
		},
		{
			name: "parallel on",
			raw:  map[string]any{"PARALLEL": "ON"},
			want: "PARALLEL ON",
		},
		{
			name: "partition without include",
			raw:  map[string]any{"PARTITION_BY": map[string]any{"columns": []string{"year", "month"}}},
			want: "PARTITION BY (year,month)\nPARALLEL OFF",
		},
		{
			name: "partition with include",
			raw:  map[string]any{"PARTITION_BY": PartitionBy{Columns: []string{"year"}, Include: true}},
			want: "PARTITION BY (year) INCLUDE\nPARALLEL OFF",
		},
		{
			name: "empty null is rendered",
			raw:  map[string]any{"NULL": ""},
			want: "NULL AS ''\nPARALLEL OFF",
		},
		{
			name: "manifest disabled",
			raw:  map[string]any{"MANIFEST": Manifest{Enable: false, Verbose: true}},
			want: "PARALLEL OFF",
		},
		{
			name: "manifest verbose",
			raw:  map[string]any{"MANIFEST": map[string]any{"enable": true, "verbose": true}},
			want: "PARALLEL OFF\nMANIFEST VERBOSE",
		},
		{
			name: "empty free-form values skipped",
			raw:  map[string]any{"MAXFILESIZE": "", "ROWGROUPSIZE": "", "EXTENSION": ""},
			want: "PARALLEL OFF",
		},
		{
			name: "fixedwidth",
			raw:  map[string]any{"FIXEDWIDTH": "0:3,1:100,2:30", "ADDQUOTES": true},
			want: "FIXEDWIDTH '0:3,1:100,2:30'\nADDQUOTES\nPARALLEL OFF",
		},
		{
			name: "delimited export",
			raw: map[string]any{
				"DELIMITER":      ",",
				"HEADER":         true,
				"ESCAPE":         true,
				"ADDQUOTES":      true,
				"NULL":           "NULL",
				"ALLOWOVERWRITE": true,
				"PARALLEL":       true,
			},
			want: "DELIMITER AS ','\nHEADER\nADDQUOTES\nNULL AS 'NULL'\nESCAPE\nALLOWOVERWRITE\nPARALLEL ON",
		},
		{
			name: "full clause order",
			raw: map[string]any{
				"EXTENSION":    "csv.gz",
				"REGION":       "us-west-2",
				"ROWGROUPSIZE": "128 MB",
				"MAXFILESIZE":  "100 MB",
				"MANIFEST":     Manifest{Enable: true},
				"CLEANPATH":    true,
				"ENCRYPTED":    true,
				"COMPRESSION":  "gzip",
				"NULL":         "\\N",
				"HEADER":       true,
				"DELIMITER":    "|",
				"FORMAT":       "csv",
				"PARTITION_BY": PartitionBy{Columns: []string{"day"}},
			},
			want: "PARTITION BY (day)\n" +
				"FORMAT AS CSV\n" +
				"DELIMITER AS '|'\n" +
				"HEADER\n" +
				"NULL AS '\\N'\n" +
				"GZIP\n" +
				"ENCRYPTED\n" +
				"CLEANPATH\n" +
				"PARALLEL OFF\n" +
				"MANIFEST\n" +
				"MAXFILESIZE 100 MB\n" +
				"ROWGROUPSIZE 128 MB\n" +
				"REGION 'us-west-2'\n" +
				"EXTENSION 'csv.gz'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := NewOptions(tt.raw)
			if err != nil {
				t.Fatalf("NewOptions() error = %v", err)
			}
			if got := opts.String(); got != tt.want {
				t.Errorf("String() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestOptionsString_ZeroValue(t *testing.T) {
	if got := (Options{}).String(); got != "PARALLEL OFF" {
		t.Errorf("String() = %q, want %q", got, "PARALLEL OFF")
	}
}

func TestOptionsClauses_Deterministic(t *testing.T) {
	raw := map[string]any{
		"FORMAT":      "JSON",
		"COMPRESSION": "ZSTD",
		"REGION":      "us-west-2",
		"EXTENSION":   "json",
	}
	first, err := NewOptions(raw)
	if err != nil {
		t.Fatalf("NewOptions() error = %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := NewOptions(raw)
		if err != nil {
			t.Fatalf("NewOptions() error = %v", err)
		}
		if again.String() != first.String() {
			t.Fatalf("String() changed between runs: %q vs %q", again.String(), first.String())
		}
	}
}
