package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific workspace loader.
type Loader interface {
	// Load reads every workspace file under paths and merges them into one
	// model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Writer is the interface for a format-specific workspace writer.
type Writer interface {
	Write(ctx context.Context, w io.Writer, m *Model) error
}
