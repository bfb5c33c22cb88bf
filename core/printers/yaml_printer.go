package printers

import (
	"fmt"
	"io"

	"github.com/fbz-tec/pgxunload/core/unload"
	"gopkg.in/yaml.v3"
)

type yamlPrinter struct{}

func (p *yamlPrinter) Print(w io.Writer, st *unload.Statement) error {
	root, err := yamlNode(newDocument(st))
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	return enc.Close()
}

func yamlNode(v any) (*yaml.Node, error) {
	doc, ok := v.(*document)
	if !ok {
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode}
	for k, item := range doc.AllFromFront() {
		value, err := yamlNode(item)
		if err != nil {
			return nil, fmt.Errorf("error encoding key %q: %w", k, err)
		}
		if s, isString := item.(string); isString && k == "query" && len(s) > 0 {
			value.Style = yaml.LiteralStyle
		}
		mapping.Content = append(mapping.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: k}, value)
	}
	return mapping, nil
}

func init() {
	MustRegister(FormatYAML, func() Printer { return &yamlPrinter{} })
}
