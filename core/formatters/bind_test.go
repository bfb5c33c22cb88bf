package formatters

import (
	"strings"
	"testing"

	"github.com/fbz-tec/pgxunload/core/unload"
)

func newEventsStatement(params map[string]any) *unload.Statement {
	return unload.NewBuilder().
		AddSelectTemplate("SELECT * FROM events WHERE day = %(day)s").
		AddSelectParams(params).
		AddToPath("s3://bucket/events/").
		AddDefaultAuthorization().
		MustBuild()
}

func TestBindStatement(t *testing.T) {
	got, err := BindStatement(newEventsStatement(map[string]any{"day": "2024-01-01"}))
	if err != nil {
		t.Fatalf("BindStatement() error = %v", err)
	}
	want := "UNLOAD ('SELECT * FROM events WHERE day = ''2024-01-01''') TO 's3://bucket/events/'\nIAM_ROLE default\nPARALLEL OFF"
	if got != want {
		t.Errorf("BindStatement() = %q, want %q", got, want)
	}
}

func TestBindStatementMissingParam(t *testing.T) {
	_, err := BindStatement(newEventsStatement(map[string]any{"other": 1}))
	if err == nil || !strings.HasPrefix(err.Error(), "bind parameters: ") {
		t.Errorf("BindStatement() error = %v, want bind parameters error", err)
	}
}
