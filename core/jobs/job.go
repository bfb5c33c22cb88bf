package jobs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/elliotchance/orderedmap/v3"
	"github.com/fbz-tec/pgxunload/core/unload"
	"github.com/fbz-tec/pgxunload/core/validation"
	"github.com/fbz-tec/pgxunload/internal/logger"
	"gopkg.in/yaml.v3"
)

// Job is an UNLOAD definition read from a YAML file.
type Job struct {
	Name          string         `yaml:"name"`
	Select        string         `yaml:"select"`
	Params        map[string]any `yaml:"params"`
	To            string         `yaml:"to"`
	Authorization Authorization  `yaml:"authorization"`
	Options       OptionList     `yaml:"options"`
}

// Authorization selects either the cluster default role or a role chain.
type Authorization struct {
	Default bool   `yaml:"default"`
	Roles   []Role `yaml:"roles"`
}

type Role struct {
	Account string `yaml:"account"`
	Role    string `yaml:"role"`
}

// OptionList keeps UNLOAD options in file order, keyed by upper-cased name.
type OptionList struct {
	*orderedmap.OrderedMap[string, any]
}

func (l *OptionList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: options must be a mapping", node.Line)
	}

	l.OrderedMap = orderedmap.NewOrderedMap[string, any]()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		name := strings.ToUpper(strings.TrimSpace(keyNode.Value))

		if l.Has(name) {
			return fmt.Errorf("line %d: option %s is set more than once", keyNode.Line, name)
		}

		value, err := decodeOption(name, valueNode)
		if err != nil {
			return fmt.Errorf("line %d: option %s: %w", valueNode.Line, name, err)
		}
		l.Set(name, value)
	}
	return nil
}

// decodeOption keeps the scalar text of free-form options as written, so
// "maxfilesize: 100" stays "100" and a bare "null:" is the empty string.
func decodeOption(name string, node *yaml.Node) (any, error) {
	if textOptions[name] && node.Kind == yaml.ScalarNode {
		return node.Value, nil
	}
	var value any
	if err := node.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}

// Len returns the number of options, zero for an absent options block.
func (l OptionList) Len() int {
	if l.OrderedMap == nil {
		return 0
	}
	return l.OrderedMap.Len()
}

// Load reads and validates a job file.
func Load(path string) (*Job, error) {
	logger.Debug("Loading job file: %s", path)

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read job file: %w", err)
	}

	job, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", path, err)
	}
	if job.Name == "" {
		job.Name = path
	}
	return job, nil
}

// Parse decodes and validates a job definition.
func Parse(content []byte) (*Job, error) {
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var job Job
	if err := dec.Decode(&job); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("job definition is empty")
		}
		return nil, fmt.Errorf("invalid job definition: %w", err)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return &job, nil
}

// Validate checks the select template, destination, authorization and
// option names. Option values are checked when the statement is built.
func (j *Job) Validate() error {
	if err := validation.ValidateSelectTemplate(j.Select); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if err := validation.ValidateDestination(j.To); err != nil {
		return fmt.Errorf("to: %w", err)
	}

	auth := j.Authorization
	switch {
	case auth.Default && len(auth.Roles) > 0:
		return fmt.Errorf("authorization: use either default or roles, not both")
	case !auth.Default && len(auth.Roles) == 0:
		return fmt.Errorf("authorization: set default: true or list at least one role")
	}
	for i, r := range auth.Roles {
		if err := validation.ValidateAccountID(r.Account); err != nil {
			return fmt.Errorf("authorization.roles[%d]: %w", i, err)
		}
		if err := validation.ValidateRoleName(r.Role); err != nil {
			return fmt.Errorf("authorization.roles[%d]: %w", i, err)
		}
	}

	if j.Options.Len() > 0 {
		var unknown []string
		for name := range j.Options.Keys() {
			if _, ok := setters[name]; !ok {
				unknown = append(unknown, name)
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("unknown options: %s (accepted: %s)",
				strings.Join(unknown, ", "), strings.Join(unload.Fields(), ", "))
		}
	}
	return nil
}

// Builder returns a builder populated from the job. Options are applied in
// file order.
func (j *Job) Builder() (*unload.Builder, error) {
	b := unload.NewBuilder().
		AddSelectTemplate(j.Select).
		AddSelectParams(j.Params).
		AddToPath(j.To)

	if j.Authorization.Default {
		b.AddDefaultAuthorization()
	} else {
		roles := make([]unload.IAMRole, len(j.Authorization.Roles))
		for i, r := range j.Authorization.Roles {
			roles[i] = unload.IAMRole{AccountID: r.Account, RoleName: r.Role}
		}
		b.AddIAMRoleAuthorization(roles...)
	}

	if j.Options.Len() > 0 {
		for name, value := range j.Options.AllFromFront() {
			set, ok := setters[name]
			if !ok {
				return nil, fmt.Errorf("unknown option %s", name)
			}
			if err := set(b, value); err != nil {
				return nil, fmt.Errorf("option %s: %w", name, err)
			}
		}
	}
	return b, b.Err()
}

// Statement builds the job's UNLOAD statement.
func (j *Job) Statement() (*unload.Statement, error) {
	b, err := j.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}
