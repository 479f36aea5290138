package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/okra-platform/thriftrs/internal/codegen/rust"
	"github.com/okra-platform/thriftrs/internal/schema"
	"github.com/xlab/treeprint"
)

// Inspect prints how each program maps onto Rust without writing anything
func (c *Controller) Inspect(ctx context.Context, inputs []string) error {
	builder, cfg, _, err := c.newBuilder()
	if err != nil {
		return err
	}

	bundle, _, err := builder.Load(inputs...)
	if err != nil {
		return err
	}

	fmt.Fprint(c.out(), InspectBundle(bundle, cfg.Build.MaxChainDepth))
	return nil
}

// InspectBundle renders one tree per program. Declarations that cannot be
// generated are shown with the reason instead of failing the whole listing.
func InspectBundle(bundle *schema.Bundle, maxDepth int) string {
	var sb strings.Builder
	for _, p := range bundle.Programs {
		sb.WriteString(inspectProgram(p, maxDepth).String())
	}
	return sb.String()
}

func inspectProgram(p *schema.Program, maxDepth int) treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("%s (%s/mod.rs)", p.Name, rust.ModuleName(p.Name)))

	if len(p.Includes) > 0 {
		branch := tree.AddBranch("includes")
		for _, inc := range p.Includes {
			branch.AddNode(rust.ModuleName(inc.Name))
		}
	}

	if len(p.Enums) > 0 {
		branch := tree.AddBranch("enums")
		for _, e := range p.Enums {
			eb := branch.AddBranch(rust.TypeName(e.Name))
			for _, v := range e.Values {
				eb.AddNode(fmt.Sprintf("%s = %d", rust.VariantName(v.Name), v.Value))
			}
		}
	}

	if len(p.Typedefs) > 0 {
		branch := tree.AddBranch("typedefs")
		for _, td := range p.Typedefs {
			branch.AddNode(fmt.Sprintf("%s = %s", rust.TypeName(td.Name), mapped(td.Type)))
		}
	}

	if len(p.Structs) > 0 {
		branch := tree.AddBranch("structs")
		for _, s := range p.Structs {
			kind := s.Kind
			if kind == "" {
				kind = schema.StructKindStruct
			}
			sb := branch.AddBranch(fmt.Sprintf("%s (%s)", rust.TypeName(s.Name), kind))
			for _, f := range s.Fields {
				t := mapped(f.Type)
				if f.IsOptional() && !strings.HasPrefix(t, "unsupported") {
					t = "Option<" + t + ">"
				}
				sb.AddNode(fmt.Sprintf("%d: %s %s", f.Key, rust.FieldName(f.Name), t))
			}
		}
	}

	if len(p.Consts) > 0 {
		branch := tree.AddBranch("consts")
		for _, c := range p.Consts {
			name := rust.TypeName(c.Name)
			value, err := rust.RenderConst(c.Type, c.Value)
			if err != nil {
				branch.AddNode(fmt.Sprintf("%s: %s [%v]", name, mapped(c.Type), err))
				continue
			}
			branch.AddNode(fmt.Sprintf("%s: %s = %s", name, mapped(c.Type), value))
		}
	}

	if len(p.Services) > 0 {
		branch := tree.AddBranch("services")
		for i := range p.Services {
			inspectService(branch, &p.Services[i], maxDepth)
		}
	}

	return tree
}

func inspectService(branch treeprint.Tree, svc *schema.Service, maxDepth int) {
	flat, err := rust.Flatten(svc, maxDepth)
	if err != nil {
		branch.AddNode(fmt.Sprintf("%s: %v", rust.TypeName(svc.Name), err))
		return
	}

	params := make([]string, len(flat.Levels))
	for i, level := range flat.Levels {
		params[i] = level.TypeParam
	}
	sb := branch.AddBranch(fmt.Sprintf("%s<%s>", flat.Trait, strings.Join(params, ", ")))

	for _, level := range flat.Levels {
		lb := sb.AddBranch(fmt.Sprintf("%s %s: %s", level.TypeParam, level.Field, level.Trait))
		for _, m := range level.Methods {
			args := make([]string, len(m.Args))
			for i, a := range m.Args {
				args[i] = a.Name + ": " + a.Type
			}
			mb := lb.AddBranch(fmt.Sprintf("%s(%s) -> %s", m.Name, strings.Join(args, ", "), m.Effective))
			mb.AddNode("args " + m.ArgsType)
			mb.AddNode("result " + m.ResultType)
			if len(m.Errors) > 0 {
				mb.AddNode("error " + m.ErrorType)
			}
		}
	}
}

func mapped(t *schema.Type) string {
	s, err := rust.MapType(t)
	if err != nil {
		return "unsupported"
	}
	return s
}
