package schema

// Bundle is a set of programs handed over by the front end in one document
type Bundle struct {
	Programs []*Program `yaml:"programs" json:"programs"`
}

// Program is one IDL module: a single .thrift file after parsing and checking
type Program struct {
	Name       string            `yaml:"name" json:"name"`
	Namespaces map[string]string `yaml:"namespaces" json:"namespaces"`
	Includes   []Include         `yaml:"includes" json:"includes"`
	Typedefs   []Typedef         `yaml:"typedefs" json:"typedefs"`
	Enums      []Enum            `yaml:"enums" json:"enums"`
	Structs    []Struct          `yaml:"structs" json:"structs"`
	Services   []Service         `yaml:"services" json:"services"`
	Consts     []Const           `yaml:"consts" json:"consts"`
}

// Namespace returns the namespace the program declares for a target language
func (p *Program) Namespace(lang string) string {
	if p.Namespaces == nil {
		return ""
	}
	return p.Namespaces[lang]
}

// Include references another program by module name
type Include struct {
	Name string `yaml:"name" json:"name"`
	Path string `yaml:"path" json:"path"`
}

// Typedef aliases a type under a new name
type Typedef struct {
	Name string `yaml:"name" json:"name"`
	Type *Type  `yaml:"type" json:"type"`
}

// Enum is an ordered set of named integer discriminants. The first value is the default.
type Enum struct {
	Name   string      `yaml:"name" json:"name"`
	Values []EnumValue `yaml:"values" json:"values"`
}

// Lookup finds a value by name
func (e *Enum) Lookup(name string) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Name == name {
			return v, true
		}
	}
	return EnumValue{}, false
}

// LookupValue finds the first value carrying the given discriminant
func (e *Enum) LookupValue(discriminant int64) (EnumValue, bool) {
	for _, v := range e.Values {
		if v.Value == discriminant {
			return v, true
		}
	}
	return EnumValue{}, false
}

// EnumValue is a single enum variant
type EnumValue struct {
	Name  string `yaml:"name" json:"name"`
	Value int64  `yaml:"value" json:"value"`
}

// StructKind distinguishes plain structs, exceptions and unions
type StructKind string

const (
	StructKindStruct    StructKind = "struct"
	StructKindException StructKind = "exception"
	StructKindUnion     StructKind = "union"
)

// Struct represents a struct, exception or union declaration
type Struct struct {
	Name   string     `yaml:"name" json:"name"`
	Kind   StructKind `yaml:"kind" json:"kind"`
	Fields []Field    `yaml:"fields" json:"fields"`
}

// Requiredness governs whether a field must be present on the wire
type Requiredness string

const (
	Required        Requiredness = "required"
	Optional        Requiredness = "optional"
	DefaultRequired Requiredness = "default"
)

// Field is a struct member, function argument or declared exception
type Field struct {
	Name         string       `yaml:"name" json:"name"`
	Key          int32        `yaml:"key" json:"key"`
	Type         *Type        `yaml:"type" json:"type"`
	Requiredness Requiredness `yaml:"requiredness" json:"requiredness"`
}

// IsOptional reports whether the field is explicitly optional.
// Default requiredness counts as required.
func (f Field) IsOptional() bool {
	return f.Requiredness == Optional
}

// Service is a set of functions with at most one parent service
type Service struct {
	Name      string     `yaml:"name" json:"name"`
	Program   string     `yaml:"program" json:"program"`
	Extends   string     `yaml:"extends" json:"extends"`
	Functions []Function `yaml:"functions" json:"functions"`

	// Parent is set by Link from Extends
	Parent *Service `yaml:"-" json:"-"`
}

// Chain returns the service followed by its ancestors, nearest first
func (s *Service) Chain() []*Service {
	var chain []*Service
	for cur := s; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	return chain
}

// Function is a single service method
type Function struct {
	Name    string  `yaml:"name" json:"name"`
	Args    []Field `yaml:"args" json:"args"`
	Returns *Type   `yaml:"returns" json:"returns"`
	Throws  []Field `yaml:"throws" json:"throws"`
	Oneway  bool    `yaml:"oneway" json:"oneway"`
}

// Const is a named, typed literal
type Const struct {
	Name  string      `yaml:"name" json:"name"`
	Type  *Type       `yaml:"type" json:"type"`
	Value *ConstValue `yaml:"value" json:"value"`
}
