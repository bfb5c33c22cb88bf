package unload

import (
	"fmt"
	"maps"
)

// Statement is a finished UNLOAD statement and its bind parameters.
// Pass Query and Params together to a parameterized execution API.
// A Statement keeps its own copies of params and options and never hands
// out references to them.
type Statement struct {
	selectTemplate string
	params         map[string]any
	toPath         string
	authorization  string
	options        Options
}

// NewStatement assembles a statement from already validated parts.
// params and options are copied. A nil params map becomes an empty one.
func NewStatement(selectTemplate string, params map[string]any, toPath, authorization string, options Options) *Statement {
	p := maps.Clone(params)
	if p == nil {
		p = map[string]any{}
	}
	return &Statement{
		selectTemplate: selectTemplate,
		params:         p,
		toPath:         toPath,
		authorization:  authorization,
		options:        options.clone(),
	}
}

// Query returns the statement text. Placeholders in the select template are left untouched.
func (s *Statement) Query() string {
	return fmt.Sprintf("UNLOAD ('%s') TO '%s'\n%s\n%s",
		s.selectTemplate, s.toPath, s.authorization, s.options.String())
}

// Params returns a copy of the bind parameters for the select template.
func (s *Statement) Params() map[string]any { return maps.Clone(s.params) }

func (s *Statement) ToPath() string { return s.toPath }

func (s *Statement) Authorization() string { return s.authorization }

// Options returns a copy of the validated options.
func (s *Statement) Options() Options { return s.options.clone() }

func (s *Statement) String() string { return s.Query() }
