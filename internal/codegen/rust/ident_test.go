package rust

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "simple"},
		{"twoWords", "two_words"},
		{"already_snake", "already_snake"},
		{"HTTPCode", "h_t_t_p_code"},
		{"Name", "name"},
		{"type", "type_"},
		{"self", "self_"},
		{"match", "match_"},
		{"async", "async_"},
		{"sizeof", "sizeof_"},
		{"Type", "type_"},
		{"types", "types"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, FieldName(tt.input))
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"user", "User"},
		{"shared_service", "SharedService"},
		{"SharedService", "SharedService"},
		{"a_multi_word", "AMultiWord"},
		{"self", "Self_"},
		{"Self", "Self_"},
		{"trailing_", "Trailing"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeName(tt.input))
		})
	}
}

func TestSanitize_SuffixNeverStacks(t *testing.T) {
	// Test: Re-sanitizing a collision-suffixed name is a no-op
	for _, kw := range []string{"type", "fn", "struct", "where", "yield"} {
		once := FieldName(kw)
		assert.Equal(t, kw+"_", once)
		assert.Equal(t, once, FieldName(once))
		assert.Equal(t, once, Normalize(once))
	}

	once := TypeName("Self")
	assert.Equal(t, once, TypeName(once))
}

func TestSanitize_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, "get_struct", FieldName("getStruct"))
		assert.Equal(t, "GetStruct", TypeName("get_struct"))
	}
}

func TestModuleName(t *testing.T) {
	assert.Equal(t, "shared", ModuleName("shared"))
	assert.Equal(t, "shared_types", ModuleName("SharedTypes"))
	assert.Equal(t, "mod_", ModuleName("mod"))
}

func TestCaseHelpers(t *testing.T) {
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Élan", capitalize("élan"))
	assert.Equal(t, "aMultiWord", camelcase("a_multi_word"))
	assert.Equal(t, "some_name", underscore("someName"))
	assert.Equal(t, "", underscore(""))
}
