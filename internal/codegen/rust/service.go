package rust

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okra-platform/thriftrs/internal/schema"
)

// DefaultMaxChainDepth is one level per letter of the alphabet
const DefaultMaxChainDepth = 26

// FlatService is a service with its extends chain flattened into delegate levels.
// Levels[0] is the service itself, followed by its ancestors nearest first.
type FlatService struct {
	Trait     string
	Processor string
	Client    string
	Levels    []Level
}

// Own returns the level holding the methods declared directly on the service
func (f *FlatService) Own() Level {
	return f.Levels[0]
}

// Ancestors returns the inherited levels in chain order
func (f *FlatService) Ancestors() []Level {
	return f.Levels[1:]
}

// Level is one service of the chain, bound to a generic parameter and a delegate field
type Level struct {
	Index     int
	TypeParam string
	Field     string
	Service   *schema.Service
	Trait     string
	Methods   []Method
}

// Method is a function with its synthesized argument, result and error types
type Method struct {
	Name       string
	ArgsType   string
	ResultType string
	ErrorType  string
	Args       []Param
	Return     string
	Errors     []ErrorVariant

	// Effective is Return, or Result<Return, ErrorType> when the function throws
	Effective string
}

// Param is a method argument with its wire key
type Param struct {
	Name string
	Type string
	Key  int32
}

// ErrorVariant is one declared exception of a method
type ErrorVariant struct {
	Variant string
	Name    string
	Type    string
	Key     int32
}

// Labels returns the generic parameter and delegate field names for a chain level.
// The first 26 levels use single letters; later ones carry a numeric suffix.
func Labels(index int) (typeParam, field string) {
	letter := rune('a' + index%26)
	suffix := ""
	if round := index / 26; round > 0 {
		suffix = strconv.Itoa(round)
	}
	return strings.ToUpper(string(letter)) + suffix, string(letter) + suffix
}

// Flatten walks the extends chain of svc and synthesizes every level's own methods.
// maxDepth bounds the number of levels including svc; zero selects DefaultMaxChainDepth.
func Flatten(svc *schema.Service, maxDepth int) (*FlatService, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxChainDepth
	}

	trait := TypeName(svc.Name)
	flat := &FlatService{
		Trait:     trait,
		Processor: trait + "Processor",
		Client:    trait + "Client",
	}

	for cur := svc; cur != nil; cur = cur.Parent {
		index := len(flat.Levels)
		if index == maxDepth {
			return nil, &ChainTooLongError{Service: svc.Name, Max: maxDepth}
		}

		level := Level{
			Index:   index,
			Service: cur,
			Trait:   TypeName(cur.Name),
		}
		level.TypeParam, level.Field = Labels(index)

		for _, fn := range cur.Functions {
			m, err := synthesize(level.Trait, fn)
			if err != nil {
				return nil, fmt.Errorf("service %s function %s: %w", cur.Name, fn.Name, err)
			}
			level.Methods = append(level.Methods, m)
		}
		flat.Levels = append(flat.Levels, level)
	}

	return flat, nil
}

// synthesize derives the Args/Result/Error names and the signature of one function
func synthesize(trait string, fn schema.Function) (Method, error) {
	base := trait + pascalcase(fn.Name)
	m := Method{
		Name:       FieldName(fn.Name),
		ArgsType:   base + "Args",
		ResultType: base + "Result",
		ErrorType:  base + "Error",
	}

	for _, arg := range fn.Args {
		typ, err := MapType(arg.Type)
		if err != nil {
			return Method{}, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		m.Args = append(m.Args, Param{Name: FieldName(arg.Name), Type: typ, Key: arg.Key})
	}

	ret, err := MapType(fn.Returns)
	if err != nil {
		return Method{}, fmt.Errorf("return type: %w", err)
	}
	m.Return = ret

	for _, exc := range fn.Throws {
		typ, err := MapType(exc.Type)
		if err != nil {
			return Method{}, fmt.Errorf("exception %s: %w", exc.Name, err)
		}
		name := FieldName(exc.Name)
		m.Errors = append(m.Errors, ErrorVariant{
			Variant: Normalize(pascalcase(name)),
			Name:    name,
			Type:    typ,
			Key:     exc.Key,
		})
	}

	m.Effective = m.Return
	if len(m.Errors) > 0 {
		m.Effective = "Result<" + m.Return + ", " + m.ErrorType + ">"
	}
	return m, nil
}

// writeService emits the service! invocation carrying the trait, processor and client
func (u *unit) writeService(svc *schema.Service) error {
	flat, err := Flatten(svc, u.opts.MaxChainDepth)
	if err != nil {
		return err
	}

	w := u.w
	w.WriteBlock("service! {", "}", func() {
		w.WriteLinef("trait_name = %s,", flat.Trait)
		w.WriteLinef("processor_name = %s,", flat.Processor)
		w.WriteLinef("client_name = %s,", flat.Client)

		w.WriteBlock("service_methods = [", "],", func() {
			u.writeMethods(flat.Own())
		})
		w.WriteBlock("parent_methods = [", "],", func() {
			for _, level := range flat.Ancestors() {
				u.writeMethods(level)
			}
		})

		bounds := make([]string, 0, len(flat.Levels))
		fields := make([]string, 0, len(flat.Levels))
		for _, level := range flat.Levels {
			bounds = append(bounds, level.TypeParam+": "+level.Trait+",")
			fields = append(fields, level.Field+": "+level.TypeParam+",")
		}
		w.WriteLinef("bounds = [%s],", strings.Join(bounds, " "))
		w.WriteLinef("fields = [%s]", strings.Join(fields, " "))
	})
	w.BlankLine()
	return nil
}

func (u *unit) writeMethods(level Level) {
	w := u.w
	for _, m := range level.Methods {
		w.WriteLinef("%s -> %s = %s.%s(", m.ArgsType, m.ResultType, level.Field, m.Name)
		w.Indent()
		for _, p := range m.Args {
			w.WriteLinef("%s: %s => %d,", p.Name, p.Type, p.Key)
		}
		w.Dedent()
		w.WriteLinef(") -> %s => %s = [", m.Return, m.ErrorType)
		w.Indent()
		for _, e := range m.Errors {
			w.WriteLinef("%s(%s: %s => %d),", e.Variant, e.Name, e.Type, e.Key)
		}
		w.Dedent()
		w.WriteLinef("] (%s),", m.Effective)
	}
}
