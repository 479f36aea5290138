package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the shape of a type reference
type Kind string

const (
	KindVoid      Kind = "void"
	KindString    Kind = "string"
	KindBinary    Kind = "binary"
	KindBool      Kind = "bool"
	KindByte      Kind = "byte"
	KindI16       Kind = "i16"
	KindI32       Kind = "i32"
	KindI64       Kind = "i64"
	KindDouble    Kind = "double"
	KindEnum      Kind = "enum"
	KindStruct    Kind = "struct"
	KindException Kind = "exception"
	KindUnion     Kind = "union"
	KindMap       Kind = "map"
	KindSet       Kind = "set"
	KindList      Kind = "list"
	KindTypedef   Kind = "typedef"
	KindService   Kind = "service"

	// KindNamed is a reference by name that Link has not resolved yet
	KindNamed Kind = "named"
)

var baseKinds = map[string]Kind{
	"void":   KindVoid,
	"string": KindString,
	"binary": KindBinary,
	"bool":   KindBool,
	"byte":   KindByte,
	"i8":     KindByte,
	"i16":    KindI16,
	"i32":    KindI32,
	"i64":    KindI64,
	"double": KindDouble,
}

// IsBase reports whether the kind is a scalar base type
func (k Kind) IsBase() bool {
	_, ok := baseKinds[string(k)]
	return ok
}

// Type is a reference to a type as seen at the point of use
type Type struct {
	Kind    Kind   `yaml:"kind" json:"kind"`
	Name    string `yaml:"name,omitempty" json:"name,omitempty"`
	Program string `yaml:"program,omitempty" json:"program,omitempty"`

	// Container parameters
	Key   *Type `yaml:"key,omitempty" json:"key,omitempty"`
	Value *Type `yaml:"value,omitempty" json:"value,omitempty"`
	Elem  *Type `yaml:"elem,omitempty" json:"elem,omitempty"`

	// Target is the aliased type of a typedef, set by Link
	Target *Type `yaml:"-" json:"-"`
	// Enum is the declaration behind an enum reference, set by Link
	Enum *Enum `yaml:"-" json:"-"`
}

// Base returns a reference to a base type
func Base(k Kind) *Type {
	return &Type{Kind: k}
}

// Named returns an unresolved reference, optionally module-qualified ("shared.Foo")
func Named(ref string) *Type {
	t := &Type{Kind: KindNamed, Name: ref}
	if i := strings.LastIndex(ref, "."); i > 0 {
		t.Program = ref[:i]
		t.Name = ref[i+1:]
	}
	return t
}

// MapOf returns a map<key, value> reference
func MapOf(key, value *Type) *Type {
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// SetOf returns a set<elem> reference
func SetOf(elem *Type) *Type {
	return &Type{Kind: KindSet, Elem: elem}
}

// ListOf returns a list<elem> reference
func ListOf(elem *Type) *Type {
	return &Type{Kind: KindList, Elem: elem}
}

// TrueType follows typedef aliasing to the concrete type
func (t *Type) TrueType() *Type {
	for t != nil && t.Kind == KindTypedef && t.Target != nil {
		t = t.Target
	}
	return t
}

// IsContainer reports whether the type is a map, set or list
func (t *Type) IsContainer() bool {
	switch t.Kind {
	case KindMap, KindSet, KindList:
		return true
	}
	return false
}

// String renders the type in IDL notation
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindMap:
		return fmt.Sprintf("map<%s,%s>", t.Key, t.Value)
	case KindSet:
		return fmt.Sprintf("set<%s>", t.Elem)
	case KindList:
		return fmt.Sprintf("list<%s>", t.Elem)
	}
	if t.Name == "" {
		return string(t.Kind)
	}
	if t.Program != "" {
		return t.Program + "." + t.Name
	}
	return t.Name
}

// UnmarshalYAML accepts either a scalar shorthand ("i32", "Foo", "shared.Foo")
// or the full mapping form.
func (t *Type) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if k, ok := baseKinds[node.Value]; ok {
			*t = Type{Kind: k}
			return nil
		}
		if node.Value == "" {
			return fmt.Errorf("line %d: empty type reference", node.Line)
		}
		*t = *Named(node.Value)
		return nil
	}

	type plain Type
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Kind == "" {
		if p.Name == "" {
			return fmt.Errorf("line %d: type reference needs a kind or a name", node.Line)
		}
		p.Kind = KindNamed
	}
	if k, ok := baseKinds[string(p.Kind)]; ok {
		p.Kind = k
	}
	*t = Type(p)
	return nil
}
