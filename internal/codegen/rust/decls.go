package rust

import (
	"errors"
	"fmt"

	"github.com/okra-platform/thriftrs/internal/schema"
)

// writeEnum emits an enom! invocation; the first declared value is the default
func (u *unit) writeEnum(e schema.Enum) error {
	if len(e.Values) == 0 {
		return fmt.Errorf("enum %s has no values", e.Name)
	}

	w := u.w
	w.WriteBlock("enom! {", "}", func() {
		w.WriteLinef("name = %s,", TypeName(e.Name))
		w.WriteBlock("values = [", "],", func() {
			for _, v := range e.Values {
				w.WriteLinef("%s = %d,", VariantName(v.Name), v.Value)
			}
		})
		w.WriteLinef("default = %s", VariantName(e.Values[0].Name))
	})
	w.BlankLine()
	return nil
}

// writeTypedef emits a type alias
func (u *unit) writeTypedef(td schema.Typedef) error {
	typ, err := MapType(td.Type)
	if err != nil {
		return fmt.Errorf("typedef %s: %w", td.Name, err)
	}
	u.w.WriteLinef("pub type %s = %s;", TypeName(td.Name), typ)
	u.w.BlankLine()
	return nil
}

// writeStruct emits a strukt! invocation for a struct, exception or union
func (u *unit) writeStruct(s schema.Struct) error {
	lines := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		typ, err := fieldType(f)
		if err != nil {
			return fmt.Errorf("%s %s field %s: %w", s.Kind, s.Name, f.Name, err)
		}
		lines = append(lines, fmt.Sprintf("%s: %s => %d,", FieldName(f.Name), typ, f.Key))
	}

	w := u.w
	w.WriteBlock("strukt! {", "}", func() {
		w.WriteLinef("name = %s,", TypeName(s.Name))
		w.WriteBlock("fields = {", "}", func() {
			for _, line := range lines {
				w.WriteLine(line)
			}
		})
	})
	w.BlankLine()
	return nil
}

// writeConst emits a constant item
func (u *unit) writeConst(c schema.Const) error {
	typ, err := MapType(c.Type)
	if err != nil {
		return fmt.Errorf("const %s: %w", c.Name, err)
	}
	value, err := RenderConst(c.Type, c.Value)
	if err != nil {
		var uc *UnsupportedConstantError
		if errors.As(err, &uc) {
			uc.Const = c.Name
			return uc
		}
		return fmt.Errorf("const %s: %w", c.Name, err)
	}
	u.w.WriteLinef("pub const %s : %s = %s;", TypeName(c.Name), typ, value)
	return nil
}
