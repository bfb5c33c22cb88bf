package printers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/fbz-tec/pgxunload/core/unload"
	"gopkg.in/yaml.v3"
)

func testStatement(t *testing.T) *unload.Statement {
	t.Helper()
	st, err := unload.NewBuilder().
		AddSelectTemplate("SELECT * FROM t WHERE day = %(day)s").
		AddSelectParams(map[string]any{"day": "2024-01-01"}).
		AddToPath("s3://b/p/").
		AddDefaultAuthorization().
		SetFormat("CSV").
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return st
}

func TestRegistry(t *testing.T) {
	want := []string{"json", "sql", "yaml"}
	if got := List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	for _, format := range []string{"sql", " JSON ", "Yaml"} {
		if _, err := Get(format); err != nil {
			t.Errorf("Get(%q) error = %v", format, err)
		}
	}

	if _, err := Get("xml"); err == nil || !strings.Contains(err.Error(), "available: json, sql, yaml") {
		t.Errorf("Get(xml) error = %v", err)
	}

	if err := Register("sql", func() Printer { return &sqlPrinter{} }); err == nil {
		t.Error("Register() of an existing format should fail")
	}
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRegister() of an existing format should panic")
		}
	}()
	MustRegister("json", func() Printer { return &jsonPrinter{} })
}

func TestSQLPrinter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&sqlPrinter{}).Print(&buf, testStatement(t)); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := "UNLOAD ('SELECT * FROM t WHERE day = ''2024-01-01''') TO 's3://b/p/'\nIAM_ROLE default\nFORMAT AS CSV\nPARALLEL OFF;\n"
	if buf.String() != want {
		t.Errorf("Print() = %q, want %q", buf.String(), want)
	}
}

func TestJSONPrinter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&jsonPrinter{}).Print(&buf, testStatement(t)); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	want := `{
  "query": "UNLOAD ('SELECT * FROM t WHERE day = %(day)s') TO 's3://b/p/'\nIAM_ROLE default\nFORMAT AS CSV\nPARALLEL OFF",
  "params": {
    "day": "2024-01-01"
  },
  "destination": "s3://b/p/",
  "authorization": "IAM_ROLE default",
  "options": [
    "FORMAT AS CSV",
    "PARALLEL OFF"
  ]
}
`
	if buf.String() != want {
		t.Errorf("Print() =\n%s\nwant\n%s", buf.String(), want)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Errorf("output is not valid JSON: %v", err)
	}
}

func TestJSONPrinter_EmptyParams(t *testing.T) {
	st := unload.NewBuilder().
		AddSelectTemplate("SELECT 1").
		AddToPath("s3://b/p/").
		AddDefaultAuthorization().
		MustBuild()

	var buf bytes.Buffer
	if err := (&jsonPrinter{}).Print(&buf, st); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"params": {},`) {
		t.Errorf("Print() = %s, want empty params object", buf.String())
	}
}

func TestYAMLPrinter(t *testing.T) {
	st := testStatement(t)

	var buf bytes.Buffer
	if err := (&yamlPrinter{}).Print(&buf, st); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	mapping := root.Content[0]
	var keys []string
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	wantKeys := []string{"query", "params", "destination", "authorization", "options"}
	if !reflect.DeepEqual(keys, wantKeys) {
		t.Errorf("keys = %v, want %v", keys, wantKeys)
	}

	var decoded struct {
		Query         string            `yaml:"query"`
		Params        map[string]string `yaml:"params"`
		Destination   string            `yaml:"destination"`
		Authorization string            `yaml:"authorization"`
		Options       []string          `yaml:"options"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if decoded.Query != st.Query() {
		t.Errorf("query = %q, want %q", decoded.Query, st.Query())
	}
	if decoded.Params["day"] != "2024-01-01" {
		t.Errorf("params = %v", decoded.Params)
	}
	if decoded.Destination != "s3://b/p/" || decoded.Authorization != "IAM_ROLE default" {
		t.Errorf("destination/authorization = %q/%q", decoded.Destination, decoded.Authorization)
	}
	if !reflect.DeepEqual(decoded.Options, []string{"FORMAT AS CSV", "PARALLEL OFF"}) {
		t.Errorf("options = %v", decoded.Options)
	}
	if !strings.Contains(buf.String(), "query: |") {
		t.Errorf("query should be a literal block:\n%s", buf.String())
	}
}
