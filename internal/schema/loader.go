package schema

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Decode reads a front-end handoff document. The document is YAML or JSON and holds
// either a bundle ({programs: [...]}) or a single program. The result is not linked.
func Decode(data []byte) (*Bundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty AST document")
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse AST document: %w", err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("AST document must be a mapping")
	}
	doc := root.Content[0]

	if hasKey(doc, "programs") {
		var b Bundle
		if err := doc.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode programs: %w", err)
		}
		return &b, nil
	}

	var p Program
	if err := doc.Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode program: %w", err)
	}
	return &Bundle{Programs: []*Program{&p}}, nil
}

// LoadFiles decodes every file into one bundle and links it
func LoadFiles(paths ...string) (*Bundle, error) {
	bundle := &Bundle{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read AST file %s: %w", path, err)
		}
		b, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		bundle.Programs = append(bundle.Programs, b.Programs...)
	}

	if err := bundle.Link(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Program returns the program with the given module name
func (b *Bundle) Program(name string) *Program {
	for _, p := range b.Programs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
