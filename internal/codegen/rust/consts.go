package rust

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okra-platform/thriftrs/internal/schema"
)

// RenderConst renders a constant literal of the given type.
// Only base types and enum references are supported; composite values
// (struct, map, set, list) are reported as UnsupportedConstantError.
// A scalar written in a form that does not fit the type is rendered from its
// source text when that text is a valid literal of the type, and rejected otherwise.
func RenderConst(t *schema.Type, v *schema.ConstValue) (string, error) {
	t = t.TrueType()
	if t == nil || v == nil {
		return "", &UnsupportedConstantError{Type: t}
	}

	switch t.Kind {
	case schema.KindString, schema.KindBinary:
		if v.Kind == schema.ConstString {
			return `"` + v.String + `"`, nil
		}
		if v.Raw != "" && v.Kind != schema.ConstMap && v.Kind != schema.ConstList {
			return `"` + v.Raw + `"`, nil
		}
	case schema.KindBool:
		if v.Kind == schema.ConstInteger {
			if v.Integer > 0 {
				return "true", nil
			}
			return "false", nil
		}
	case schema.KindByte, schema.KindI16, schema.KindI32, schema.KindI64:
		switch v.Kind {
		case schema.ConstInteger:
			return strconv.FormatInt(v.Integer, 10), nil
		case schema.ConstString:
			if i, err := strconv.ParseInt(v.String, 0, 64); err == nil {
				return strconv.FormatInt(i, 10), nil
			}
		}
	case schema.KindDouble:
		switch v.Kind {
		case schema.ConstInteger:
			return strconv.FormatInt(v.Integer, 10), nil
		case schema.ConstDouble:
			return strconv.FormatFloat(v.Double, 'g', -1, 64), nil
		case schema.ConstString:
			if f, err := strconv.ParseFloat(v.String, 64); err == nil {
				return strconv.FormatFloat(f, 'g', -1, 64), nil
			}
		}
	case schema.KindEnum:
		return renderEnumConst(t, v)
	default:
		return "", &UnsupportedConstantError{Type: t}
	}

	return "", mismatch(t, v)
}

func renderEnumConst(t *schema.Type, v *schema.ConstValue) (string, error) {
	enumName := TypeName(t.Name)

	switch v.Kind {
	case schema.ConstIdentifier, schema.ConstString:
		name := v.Identifier
		if v.Kind == schema.ConstString {
			name = v.String
		}
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if name == "" {
			return "", mismatch(t, v)
		}
		return enumName + "::" + VariantName(name), nil
	case schema.ConstInteger:
		if t.Enum == nil {
			return "", fmt.Errorf("enum %s is not linked, cannot resolve discriminant %d", t.Name, v.Integer)
		}
		ev, ok := t.Enum.LookupValue(v.Integer)
		if !ok {
			return "", fmt.Errorf("enum %s has no value %d", t.Name, v.Integer)
		}
		return enumName + "::" + VariantName(ev.Name), nil
	}

	return "", mismatch(t, v)
}

// mismatch reports a scalar-typed constant whose value has the wrong form
func mismatch(t *schema.Type, v *schema.ConstValue) error {
	if v.Raw != "" {
		return fmt.Errorf("value %q is not a valid %s literal", v.Raw, t)
	}
	return fmt.Errorf("%s value is not a valid %s literal", v.Kind, t)
}

// VariantName is the identifier of an enum variant
func VariantName(name string) string {
	return Normalize(capitalize(name))
}
