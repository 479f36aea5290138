package rust

import (
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"testing"

	"github.com/okra-platform/thriftrs/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan for property-based testing:
// 1. Output is byte-identical across repeated runs
// 2. Brackets and braces in the output are balanced
// 3. Every declaration is emitted, in declaration order
// 4. No emitted field or argument name is a reserved word
// 5. Optional fields are wrapped in Option

var fieldLine = regexp.MustCompile(`(?m)^\s+(\w+): (.+) => (\d+),$`)

func TestGenerator_PropertyBasedRandomPrograms(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 50; i++ {
		t.Run(fmt.Sprintf("random_program_%d", i), func(t *testing.T) {
			p := randomProgram(rng)
			gen := NewGenerator(Options{})

			first, err := gen.Generate(p)
			require.NoError(t, err)
			second, err := gen.Generate(p)
			require.NoError(t, err)
			assert.Equal(t, first, second, "output must be deterministic")

			code := string(first)
			assert.Equal(t, strings.Count(code, "{"), strings.Count(code, "}"), "unbalanced braces")
			assert.Equal(t, strings.Count(code, "["), strings.Count(code, "]"), "unbalanced brackets")

			names := make([]string, 0, len(p.Structs))
			for _, s := range p.Structs {
				names = append(names, "name = "+TypeName(s.Name)+",")
			}
			if len(names) > 0 {
				assertInOrder(t, code, names...)
			}

			for _, m := range fieldLine.FindAllStringSubmatch(code, -1) {
				assert.False(t, IsKeyword(m[1]), "reserved word %q emitted as identifier", m[1])
			}

			for _, s := range p.Structs {
				for _, f := range s.Fields {
					line := fmt.Sprintf("%s: ", FieldName(f.Name))
					if f.IsOptional() {
						assert.Contains(t, code, line+"Option<")
					}
				}
			}
		})
	}
}

var randomNames = []string{
	"id", "name", "type", "value", "self", "match", "userId", "created_at",
	"ref", "loop", "items", "fn", "where", "payload", "count", "mod",
}

func randomType(rng *rand.Rand, depth int) *schema.Type {
	bases := []schema.Kind{
		schema.KindString, schema.KindBinary, schema.KindBool, schema.KindByte,
		schema.KindI16, schema.KindI32, schema.KindI64, schema.KindDouble,
	}
	if depth > 2 {
		return schema.Base(bases[rng.Intn(len(bases))])
	}
	switch rng.Intn(6) {
	case 0:
		return schema.ListOf(randomType(rng, depth+1))
	case 1:
		return schema.SetOf(randomType(rng, depth+1))
	case 2:
		return schema.MapOf(randomType(rng, depth+1), randomType(rng, depth+1))
	default:
		return schema.Base(bases[rng.Intn(len(bases))])
	}
}

func randomFields(rng *rand.Rand) []schema.Field {
	reqs := []schema.Requiredness{schema.Required, schema.Optional, schema.DefaultRequired}
	n := rng.Intn(5)
	fields := make([]schema.Field, 0, n)
	used := map[string]bool{}
	for i := 0; i < n; i++ {
		name := randomNames[rng.Intn(len(randomNames))]
		if used[name] {
			continue
		}
		used[name] = true
		fields = append(fields, schema.Field{
			Name:         name,
			Key:          int32(i + 1),
			Type:         randomType(rng, 0),
			Requiredness: reqs[rng.Intn(len(reqs))],
		})
	}
	return fields
}

func randomProgram(rng *rand.Rand) *schema.Program {
	p := &schema.Program{Name: fmt.Sprintf("prog%d", rng.Intn(1000))}

	structs, enums, bases, services := rng.Intn(4), rng.Intn(3), rng.Intn(4), rng.Intn(3)

	for i := 0; i < structs; i++ {
		p.Structs = append(p.Structs, schema.Struct{
			Name:   fmt.Sprintf("Struct%d", i),
			Kind:   schema.StructKindStruct,
			Fields: randomFields(rng),
		})
	}

	for i := 0; i < enums; i++ {
		e := schema.Enum{Name: fmt.Sprintf("Enum%d", i)}
		values := rng.Intn(4)
		for v := 0; v <= values; v++ {
			e.Values = append(e.Values, schema.EnumValue{Name: fmt.Sprintf("V%d", v), Value: int64(v)})
		}
		p.Enums = append(p.Enums, e)
	}

	var parent *schema.Service
	for i := 0; i < bases; i++ {
		svc := &schema.Service{Name: fmt.Sprintf("Base%d", i), Program: "bases", Parent: parent}
		parent = svc
	}
	for i := 0; i < services; i++ {
		svc := schema.Service{Name: fmt.Sprintf("Service%d", i), Program: p.Name, Parent: parent}
		functions := rng.Intn(3)
		for j := 0; j < functions; j++ {
			svc.Functions = append(svc.Functions, schema.Function{
				Name:    randomNames[rng.Intn(len(randomNames))] + fmt.Sprint(j),
				Args:    randomFields(rng),
				Returns: randomType(rng, 1),
			})
		}
		p.Services = append(p.Services, svc)
	}

	return p
}
