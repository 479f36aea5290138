package schema

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConstKind tags the literal form a constant value was captured in
type ConstKind string

const (
	ConstInteger    ConstKind = "integer"
	ConstDouble     ConstKind = "double"
	ConstString     ConstKind = "string"
	ConstIdentifier ConstKind = "identifier"
	ConstMap        ConstKind = "map"
	ConstList       ConstKind = "list"
)

// ConstValue is a literal as captured by the front end. String holds already escaped text.
type ConstValue struct {
	Kind       ConstKind       `yaml:"kind" json:"kind"`
	Integer    int64           `yaml:"integer,omitempty" json:"integer,omitempty"`
	Double     float64         `yaml:"double,omitempty" json:"double,omitempty"`
	String     string          `yaml:"string,omitempty" json:"string,omitempty"`
	Identifier string          `yaml:"identifier,omitempty" json:"identifier,omitempty"`
	Map        []ConstMapEntry `yaml:"map,omitempty" json:"map,omitempty"`
	List       []*ConstValue   `yaml:"list,omitempty" json:"list,omitempty"`

	// Raw is the scalar text as written, for values decoded from shorthand
	Raw string `yaml:"-" json:"-"`
}

// ConstMapEntry is one key/value pair of a map literal, in source order
type ConstMapEntry struct {
	Key   *ConstValue `yaml:"key" json:"key"`
	Value *ConstValue `yaml:"value" json:"value"`
}

// IntValue returns an integer constant value
func IntValue(v int64) *ConstValue {
	return &ConstValue{Kind: ConstInteger, Integer: v}
}

// DoubleValue returns a fractional constant value
func DoubleValue(v float64) *ConstValue {
	return &ConstValue{Kind: ConstDouble, Double: v}
}

// StringValue returns a string constant value from pre-escaped text
func StringValue(escaped string) *ConstValue {
	return &ConstValue{Kind: ConstString, String: escaped}
}

// IdentifierValue returns a reference to an enum value ("Color.RED" or "RED")
func IdentifierValue(ident string) *ConstValue {
	return &ConstValue{Kind: ConstIdentifier, Identifier: ident}
}

// UnmarshalYAML maps YAML scalars and sequences onto constant kinds by their tag.
// Booleans are captured as integers, the way the IDL stores them.
func (v *ConstValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return v.decodeScalar(node)
	case yaml.SequenceNode:
		var items []*ConstValue
		if err := node.Decode(&items); err != nil {
			return err
		}
		*v = ConstValue{Kind: ConstList, List: items}
		return nil
	case yaml.MappingNode:
		type plain ConstValue
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		if p.Kind == "" {
			switch {
			case p.Identifier != "":
				p.Kind = ConstIdentifier
			case p.Map != nil:
				p.Kind = ConstMap
			case p.List != nil:
				p.Kind = ConstList
			default:
				return fmt.Errorf("line %d: constant value needs a kind", node.Line)
			}
		}
		*v = ConstValue(p)
		return nil
	}
	return fmt.Errorf("line %d: unsupported constant value node", node.Line)
}

func (v *ConstValue) decodeScalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return err
		}
		*v = ConstValue{Kind: ConstInteger, Integer: i}
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid double %q: %w", node.Line, node.Value, err)
		}
		*v = ConstValue{Kind: ConstDouble, Double: f}
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		*v = ConstValue{Kind: ConstInteger}
		if b {
			v.Integer = 1
		}
	default:
		*v = ConstValue{Kind: ConstString, String: node.Value}
	}
	v.Raw = node.Value
	return nil
}
