package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_Errors(t *testing.T) {
	tests := []struct {
		name     string
		programs []*Program
		err      string
	}{
		{
			name:     "unnamed program",
			programs: []*Program{{}},
			err:      "program without a name",
		},
		{
			name:     "duplicate program",
			programs: []*Program{{Name: "a"}, {Name: "a"}},
			err:      "program a declared twice",
		},
		{
			name:     "duplicate struct",
			programs: []*Program{{Name: "a", Structs: []Struct{{Name: "S"}, {Name: "S"}}}},
			err:      "program a: S declared twice",
		},
		{
			name: "enum and struct share a name",
			programs: []*Program{{Name: "a",
				Enums:   []Enum{{Name: "Color", Values: []EnumValue{{Name: "RED", Value: 1}}}},
				Structs: []Struct{{Name: "Color"}},
			}},
			err: "program a: Color declared twice",
		},
		{
			name: "unknown name",
			programs: []*Program{{Name: "a", Structs: []Struct{
				{Name: "S", Fields: []Field{{Name: "f", Key: 1, Type: Named("Missing")}}},
			}}},
			err: "struct S: field f: unknown name Missing",
		},
		{
			name: "unknown module",
			programs: []*Program{{Name: "a", Typedefs: []Typedef{
				{Name: "T", Type: Named("other.Thing")},
			}}},
			err: "unknown module other",
		},
		{
			name: "missing type",
			programs: []*Program{{Name: "a", Consts: []Const{
				{Name: "C", Value: IntValue(1)},
			}}},
			err: "const C: missing type",
		},
		{
			name: "self alias",
			programs: []*Program{{Name: "a", Typedefs: []Typedef{
				{Name: "T", Type: Named("T")},
			}}},
			err: "typedef T aliases itself",
		},
		{
			name: "mutual alias",
			programs: []*Program{{Name: "a", Typedefs: []Typedef{
				{Name: "T", Type: Named("U")},
				{Name: "U", Type: ListOf(Named("T"))},
			}}},
			err: "aliases itself",
		},
		{
			name: "extends a struct",
			programs: []*Program{{Name: "a",
				Structs:  []Struct{{Name: "S"}},
				Services: []Service{{Name: "Svc", Extends: "S"}},
			}},
			err: "extends S, which is not a service",
		},
		{
			name: "cyclic extends",
			programs: []*Program{{Name: "a", Services: []Service{
				{Name: "X", Extends: "Y"},
				{Name: "Y", Extends: "X"},
			}}},
			err: "cyclic extends chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := (&Bundle{Programs: tt.programs}).Link()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestLink_ChainedTypedefs(t *testing.T) {
	p := &Program{Name: "a", Typedefs: []Typedef{
		{Name: "Outer", Type: Named("Inner")},
		{Name: "Inner", Type: Base(KindString)},
	}, Structs: []Struct{
		{Name: "S", Fields: []Field{{Name: "f", Key: 1, Type: Named("Outer")}}},
	}}

	require.NoError(t, (&Bundle{Programs: []*Program{p}}).Link())

	f := p.Structs[0].Fields[0].Type
	assert.Equal(t, KindTypedef, f.Kind)
	assert.Equal(t, KindString, f.TrueType().Kind)
}

func TestLink_IsRepeatable(t *testing.T) {
	b, err := Decode([]byte(tutorialAST))
	require.NoError(t, err)
	require.NoError(t, b.Link())
	require.NoError(t, b.Link())

	calc := b.Program("tutorial").Services[0]
	assert.Equal(t, "SharedService", calc.Parent.Name)
}

func TestLink_UnionAndServiceReferences(t *testing.T) {
	p := &Program{Name: "a",
		Structs: []Struct{
			{Name: "U", Kind: StructKindUnion},
			{Name: "Holder", Fields: []Field{
				{Name: "u", Key: 1, Type: Named("U")},
				{Name: "s", Key: 2, Type: Named("Svc")},
			}},
		},
		Services: []Service{{Name: "Svc"}},
	}

	require.NoError(t, (&Bundle{Programs: []*Program{p}}).Link())
	fields := p.Structs[1].Fields
	assert.Equal(t, KindUnion, fields[0].Type.Kind)
	assert.Equal(t, KindService, fields[1].Type.Kind)
	assert.Equal(t, "a", fields[1].Type.Program)
}
