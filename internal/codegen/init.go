package codegen

import (
	"github.com/okra-platform/thriftrs/internal/codegen/rust"
)

// DefaultRegistry is the global registry instance with pre-registered generators
var DefaultRegistry = NewRegistry()

func init() {
	newRust := func(opts Options) Generator {
		return rust.NewGenerator(rust.Options{
			Namespace:     opts.Namespace,
			Version:       opts.Version,
			MaxChainDepth: opts.MaxChainDepth,
		})
	}

	DefaultRegistry.Register("rs", newRust)

	// Register rust as an alias for rs
	DefaultRegistry.Register("rust", newRust)
}
