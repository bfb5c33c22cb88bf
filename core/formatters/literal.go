package formatters

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FormatSQLValue renders val as a SQL literal.
func FormatSQLValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"

	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)

	case float32, float64:
		return fmt.Sprintf("%.15g", v)

	case time.Time:
		return QuoteLiteral(v.Format("2006-01-02 15:04:05.000000"))

	case []byte:
		return QuoteLiteral(string(v))

	case fmt.Stringer:
		return QuoteLiteral(v.String())

	default:
		return QuoteLiteral(fmt.Sprintf("%v", v))
	}
}

// QuoteLiteral wraps s in single quotes, doubling any quote inside it.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// Interpolate replaces %(name)s placeholders in an UNLOAD statement with
// literals for params. The select query of an UNLOAD is itself a quoted
// string, so every quote of a rendered literal is doubled once more.
// %% becomes %. With no params the query is returned unchanged.
func Interpolate(query string, params map[string]any) (string, error) {
	if len(params) == 0 {
		return query, nil
	}

	var b strings.Builder
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '%' || i+1 >= len(query) {
			b.WriteByte(c)
			continue
		}

		switch query[i+1] {
		case '%':
			b.WriteByte('%')
			i++

		case '(':
			end := strings.IndexByte(query[i+2:], ')')
			if end < 0 {
				return "", fmt.Errorf("unterminated placeholder at offset %d", i)
			}
			name := query[i+2 : i+2+end]
			next := i + 2 + end + 1
			if next >= len(query) || query[next] != 's' {
				return "", fmt.Errorf("placeholder %%(%s) must be followed by 's'", name)
			}
			val, ok := params[name]
			if !ok {
				return "", fmt.Errorf("missing parameter %q (available: %s)", name, strings.Join(paramNames(params), ", "))
			}
			b.WriteString(strings.ReplaceAll(FormatSQLValue(val), "'", "''"))
			i = next

		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
