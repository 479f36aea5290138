package rust

import (
	"errors"
	"fmt"

	"github.com/okra-platform/thriftrs/internal/schema"
)

var (
	// ErrUnsupportedType is matched by every UnsupportedTypeError
	ErrUnsupportedType = errors.New("unsupported type")
	// ErrUnsupportedConstant is matched by every UnsupportedConstantError
	ErrUnsupportedConstant = errors.New("unsupported constant")
	// ErrChainTooLong is matched by every ChainTooLongError
	ErrChainTooLong = errors.New("service chain too long")
)

// UnsupportedTypeError is raised when a type has no mapping in the target language
type UnsupportedTypeError struct {
	Type *schema.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("%s: %s (kind %s)", ErrUnsupportedType, e.Type, e.Type.Kind)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// UnsupportedConstantError is raised for composite constant values, which cannot be rendered
type UnsupportedConstantError struct {
	Const string
	Type  *schema.Type
}

func (e *UnsupportedConstantError) Error() string {
	if e.Const == "" {
		return fmt.Sprintf("%s: cannot render a value of type %s", ErrUnsupportedConstant, e.Type)
	}
	return fmt.Sprintf("%s: cannot render %s of type %s", ErrUnsupportedConstant, e.Const, e.Type)
}

func (e *UnsupportedConstantError) Unwrap() error { return ErrUnsupportedConstant }

// ChainTooLongError is raised when a service has more levels than there are labels
type ChainTooLongError struct {
	Service string
	Max     int
}

func (e *ChainTooLongError) Error() string {
	return fmt.Sprintf("%s: service %s extends more than %d levels", ErrChainTooLong, e.Service, e.Max)
}

func (e *ChainTooLongError) Unwrap() error { return ErrChainTooLong }
