package rust

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// keywordSuffix is appended once to identifiers that collide with a reserved word
const keywordSuffix = "_"

// keywords holds the strict and reserved words of Rust plus the pre-1.0 reserved set
var keywords = map[string]struct{}{}

func init() {
	for _, kw := range strings.Fields(`
		as async await break const continue crate dyn else enum extern false fn for if
		impl in let loop match mod move mut pub ref return self Self static struct super
		trait true type unsafe use where while
		abstract become box do final macro override priv try typeof unsized virtual yield
		alignof be offsetof pure sizeof`) {
		keywords[kw] = struct{}{}
	}
}

// IsKeyword reports whether id is reserved in the target language
func IsKeyword(id string) bool {
	_, ok := keywords[id]
	return ok
}

// Normalize appends the collision suffix when id is a reserved word.
// The suffixed form is never reserved, so Normalize is idempotent.
func Normalize(id string) string {
	if IsKeyword(id) {
		return id + keywordSuffix
	}
	return id
}

// FieldName converts a schema name into a value-level identifier (snake_case)
func FieldName(id string) string {
	return Normalize(underscore(id))
}

// TypeName converts a schema name into a type-level identifier (PascalCase)
func TypeName(id string) string {
	return Normalize(pascalcase(id))
}

// ModuleName converts a program name into a module identifier
func ModuleName(id string) string {
	return Normalize(underscore(id))
}

// underscore lowers the first rune and turns every later upper-case rune into "_" + lower.
// someName -> some_name, ABC -> a_b_c
func underscore(in string) string {
	var sb strings.Builder
	sb.Grow(len(in) + 4)
	for i, r := range in {
		if i == 0 {
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		if unicode.IsUpper(r) {
			sb.WriteString("_")
			sb.WriteRune(unicode.ToLower(r))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// camelcase drops underscores and upper-cases the rune following each one.
// a_multi_word -> aMultiWord
func camelcase(in string) string {
	var sb strings.Builder
	sb.Grow(len(in))
	upper := false
	for _, r := range in {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			sb.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// capitalize upper-cases the first rune
func capitalize(in string) string {
	r, size := utf8.DecodeRuneInString(in)
	if size == 0 {
		return in
	}
	return string(unicode.ToUpper(r)) + in[size:]
}

func pascalcase(in string) string {
	return capitalize(camelcase(in))
}
