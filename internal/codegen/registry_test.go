package codegen

import (
	"testing"

	"github.com/okra-platform/thriftrs/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGenerator is a test generator
type mockGenerator struct {
	lang string
	opts Options
}

func (m *mockGenerator) Generate(p *schema.Program) ([]byte, error) {
	return []byte("mock output"), nil
}

func (m *mockGenerator) UnitPath(p *schema.Program) string {
	return p.Name + m.FileExtension()
}

func (m *mockGenerator) Language() string {
	return m.lang
}

func (m *mockGenerator) FileExtension() string {
	return ".mock"
}

func TestRegistry_NewRegistry(t *testing.T) {
	// Test: New registry is empty by default
	r := NewRegistry()
	assert.NotNil(t, r)

	// Should error on unknown language
	_, err := r.Get("unknown", Options{})
	assert.Error(t, err)
}

func TestRegistry_Register(t *testing.T) {
	// Test: Register custom generator and pass options through
	r := NewRegistry()

	r.Register("mock", func(opts Options) Generator {
		return &mockGenerator{lang: "mock", opts: opts}
	})

	gen, err := r.Get("mock", Options{Namespace: "gen", MaxChainDepth: 3})
	require.NoError(t, err)
	assert.NotNil(t, gen)
	assert.Equal(t, "mock", gen.Language())
	assert.Equal(t, "tutorial.mock", gen.UnitPath(&schema.Program{Name: "tutorial"}))

	mock := gen.(*mockGenerator)
	assert.Equal(t, "gen", mock.opts.Namespace)
	assert.Equal(t, 3, mock.opts.MaxChainDepth)
}

func TestRegistry_UnsupportedLanguage(t *testing.T) {
	// Test: Error for unsupported language
	r := NewRegistry()

	gen, err := r.Get("unknown", Options{})
	assert.Error(t, err)
	assert.Nil(t, gen)
	assert.Contains(t, err.Error(), "unsupported language: unknown")
}

func TestRegistry_Languages(t *testing.T) {
	// Test: List of supported languages, sorted
	r := NewRegistry()

	languages := r.Languages()
	assert.Empty(t, languages)

	for _, lang := range []string{"rs", "mock", "go"} {
		lang := lang
		r.Register(lang, func(opts Options) Generator {
			return &mockGenerator{lang: lang}
		})
	}

	assert.Equal(t, []string{"go", "mock", "rs"}, r.Languages())
}

func TestDefaultRegistry(t *testing.T) {
	// Test: rs and its rust alias resolve to the same backend
	assert.Equal(t, []string{"rs", "rust"}, DefaultRegistry.Languages())

	for _, lang := range []string{"rs", "rust"} {
		gen, err := DefaultRegistry.Get(lang, Options{})
		require.NoError(t, err)
		assert.Equal(t, "rs", gen.Language())
		assert.Equal(t, ".rs", gen.FileExtension())
		assert.Equal(t, "tutorial/mod.rs", gen.UnitPath(&schema.Program{Name: "tutorial"}))
	}
}
