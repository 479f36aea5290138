package dev

import (
	"context"

	"github.com/okra-platform/thriftrs/internal/build"
)

// Generator runs one generation pass over the project
type Generator interface {
	Generate(ctx context.Context, inputs ...string) (*build.Result, error)
}
