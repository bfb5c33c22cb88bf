package printers

import (
	"fmt"
	"io"

	"github.com/fbz-tec/pgxunload/core/formatters"
	"github.com/fbz-tec/pgxunload/core/unload"
)

// sqlPrinter writes the statement with its parameters bound, terminated by
// a semicolon, ready to paste into a SQL client.
type sqlPrinter struct{}

func (p *sqlPrinter) Print(w io.Writer, st *unload.Statement) error {
	sql, err := formatters.BindStatement(st)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s;\n", sql); err != nil {
		return fmt.Errorf("error writing SQL: %w", err)
	}
	return nil
}

func init() {
	MustRegister(FormatSQL, func() Printer { return &sqlPrinter{} })
}
