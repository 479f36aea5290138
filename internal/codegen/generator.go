package codegen

import "github.com/okra-platform/thriftrs/internal/schema"

// Generator is the interface that all language backends must implement
type Generator interface {
	// Generate renders one program into a single source unit. A fatal error yields no output.
	Generate(program *schema.Program) ([]byte, error)

	// UnitPath returns the relative path of the unit generated for the program
	UnitPath(program *schema.Program) string

	// Language returns the name of the target language (e.g., "rs")
	Language() string

	// FileExtension returns the file extension for generated files (e.g., ".rs")
	FileExtension() string
}

// Options contains common options for code generation
type Options struct {
	// Namespace prefixes cross-module imports. Empty means no rewriting.
	Namespace string

	// Version is stamped into the generated header
	Version string

	// MaxChainDepth bounds the number of levels in a service extends chain.
	// Zero selects the backend default.
	MaxChainDepth int
}
