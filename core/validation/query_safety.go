package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Commands a select template may start with.
var allowedCommands = map[string]bool{
	"SELECT": true,
	"WITH":   true,
}

// Commands that modify data, schema or permissions, or that write files.
var forbiddenCommands = []string{
	"DELETE",
	"DROP",
	"TRUNCATE",
	"INSERT",
	"UPDATE",
	"ALTER",
	"CREATE",
	"GRANT",
	"REVOKE",
	"EXECUTE",
	"EXEC",
	"CALL",
	"MERGE",
	"COPY",
	"UNLOAD",
	"VACUUM",
}

var (
	forbiddenPattern = regexp.MustCompile(`\b(` + strings.Join(forbiddenCommands, "|") + `)\b`)
	leadingWord      = regexp.MustCompile(`^[\s(]*([A-Z_]+)`)
)

// ValidateSelectTemplate checks that query is a single read-only statement
// suitable as the inner query of an UNLOAD. Text inside comments, string
// literals and quoted identifiers is ignored.
func ValidateSelectTemplate(query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("select template cannot be empty")
	}

	statements := splitStatements(blankQuoted(query))
	switch len(statements) {
	case 0:
		return fmt.Errorf("select template contains no SQL statement")
	case 1:
	default:
		return fmt.Errorf("only a single SQL statement is allowed, got %d", len(statements))
	}

	stmt := strings.ToUpper(statements[0])

	m := leadingWord.FindStringSubmatch(stmt)
	if m == nil {
		return fmt.Errorf("unable to identify SQL command in select template")
	}
	if first := m[1]; !allowedCommands[first] {
		if forbiddenPattern.MatchString(first) {
			return fmt.Errorf("forbidden SQL command detected: %s (read-only mode)", first)
		}
		return fmt.Errorf("unsupported SQL command: %s (only SELECT and WITH are allowed)", first)
	}

	if found := forbiddenPattern.FindString(stmt); found != "" {
		return fmt.Errorf("forbidden SQL command detected: %s (security: command found in query)", found)
	}
	return nil
}

// blankQuoted drops comments and replaces the content of string literals
// and quoted identifiers with spaces, keeping word boundaries intact.
func blankQuoted(query string) string {
	var b strings.Builder
	b.Grow(len(query))

	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			end := strings.IndexByte(query[i:], '\n')
			if end < 0 {
				return b.String()
			}
			i += end - 1

		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			end := strings.Index(query[i+2:], "*/")
			if end < 0 {
				return b.String()
			}
			b.WriteByte(' ')
			i += end + 3

		case c == '\'' || c == '"':
			j := closingQuote(query, i+1, c)
			b.WriteString(strings.Repeat(" ", j-i))
			i = j - 1

		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closingQuote returns the index just past the quote closing a literal that
// starts at from. Doubled quotes are part of the literal.
func closingQuote(s string, from int, quote byte) int {
	for i := from; i < len(s); i++ {
		if s[i] != quote {
			continue
		}
		if i+1 < len(s) && s[i+1] == quote {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

func splitStatements(query string) []string {
	var statements []string
	for _, part := range strings.Split(query, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
