package printers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fbz-tec/pgxunload/core/unload"
)

type jsonPrinter struct{}

func (p *jsonPrinter) Print(w io.Writer, st *unload.Statement) error {
	var buf bytes.Buffer
	if err := encodeJSON(&buf, newDocument(st), 0); err != nil {
		return err
	}
	buf.WriteByte('\n')
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing JSON: %w", err)
	}
	return nil
}

// encodeJSON writes v with two-space indentation, keeping the key order of
// ordered documents.
func encodeJSON(buf *bytes.Buffer, v any, depth int) error {
	indent := strings.Repeat("  ", depth+1)
	closing := strings.Repeat("  ", depth)

	switch val := v.(type) {
	case *document:
		if val.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		i := 0
		for k, item := range val.AllFromFront() {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(indent)
			key, _ := marshalWithoutHTMLEscape(k)
			buf.Write(key)
			buf.WriteString(": ")
			if err := encodeJSON(buf, item, depth+1); err != nil {
				return fmt.Errorf("error encoding key %q: %w", k, err)
			}
			i++
		}
		buf.WriteString("\n" + closing + "}")

	case []string:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range val {
			if i > 0 {
				buf.WriteString(",\n")
			}
			s, _ := marshalWithoutHTMLEscape(item)
			buf.WriteString(indent)
			buf.Write(s)
		}
		buf.WriteString("\n" + closing + "]")

	default:
		b, err := marshalWithoutHTMLEscape(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func marshalWithoutHTMLEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func init() {
	MustRegister(FormatJSON, func() Printer { return &jsonPrinter{} })
}
