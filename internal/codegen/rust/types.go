package rust

import (
	"github.com/okra-platform/thriftrs/internal/schema"
)

// MapType renders the Rust type expression for a schema type, resolving typedefs first.
// Containers are mapped recursively.
func MapType(t *schema.Type) (string, error) {
	if t == nil {
		return "", &UnsupportedTypeError{Type: &schema.Type{Kind: "missing"}}
	}
	t = t.TrueType()

	switch t.Kind {
	case schema.KindVoid:
		return "()", nil
	case schema.KindString:
		return "String", nil
	case schema.KindBinary:
		return "Vec<u8>", nil
	case schema.KindBool:
		return "bool", nil
	case schema.KindByte:
		return "i8", nil
	case schema.KindI16:
		return "i16", nil
	case schema.KindI32:
		return "i32", nil
	case schema.KindI64:
		return "i64", nil
	case schema.KindDouble:
		return "OrderedFloat<f64>", nil
	case schema.KindEnum, schema.KindStruct, schema.KindException, schema.KindUnion:
		return TypeName(t.Name), nil
	case schema.KindMap:
		key, err := MapType(t.Key)
		if err != nil {
			return "", err
		}
		value, err := MapType(t.Value)
		if err != nil {
			return "", err
		}
		return "BTreeMap<" + key + ", " + value + ">", nil
	case schema.KindSet:
		elem, err := MapType(t.Elem)
		if err != nil {
			return "", err
		}
		return "BTreeSet<" + elem + ">", nil
	case schema.KindList:
		elem, err := MapType(t.Elem)
		if err != nil {
			return "", err
		}
		return "Vec<" + elem + ">", nil
	}

	return "", &UnsupportedTypeError{Type: t}
}

// fieldType maps a field's type, wrapping it in Option only for explicit optional fields
func fieldType(f schema.Field) (string, error) {
	typ, err := MapType(f.Type)
	if err != nil {
		return "", err
	}
	if f.IsOptional() {
		return "Option<" + typ + ">", nil
	}
	return typ, nil
}
