package printers

import (
	"io"
	"slices"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/fbz-tec/pgxunload/core/unload"
)

const (
	FormatSQL  = "sql"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Printer writes a built statement in some presentation format.
type Printer interface {
	Print(w io.Writer, st *unload.Statement) error
}

type document = orderedmap.OrderedMap[string, any]

// newDocument lays out a statement as an ordered document: the full query
// text, its parameters sorted by name, then the parts it was built from.
func newDocument(st *unload.Statement) *document {
	params := orderedmap.NewOrderedMap[string, any]()
	names := make([]string, 0, len(st.Params()))
	for name := range st.Params() {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		params.Set(name, st.Params()[name])
	}

	clauses := st.Options().Clauses()

	doc := orderedmap.NewOrderedMap[string, any]()
	doc.Set("query", st.Query())
	doc.Set("params", params)
	doc.Set("destination", st.ToPath())
	doc.Set("authorization", st.Authorization())
	doc.Set("options", clauses)
	return doc
}
