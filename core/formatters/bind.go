package formatters

import (
	"fmt"

	"github.com/fbz-tec/pgxunload/core/unload"
)

// BindStatement returns the statement text with its parameters inlined.
func BindStatement(st *unload.Statement) (string, error) {
	sql, err := Interpolate(st.Query(), st.Params())
	if err != nil {
		return "", fmt.Errorf("bind parameters: %w", err)
	}
	return sql, nil
}
