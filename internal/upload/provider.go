// Package upload copies grading artifacts to remote storage through a
// registry of named providers.
package upload

import (
	"context"
	"io"

	"github.com/zinc-sig/gradeghost/internal/settings"
)

// Provider defines the interface for file upload providers
type Provider interface {
	// Upload uploads content from reader to the remote path
	Upload(ctx context.Context, reader io.Reader, remotePath string) error

	// Configure sets up the provider with the given configuration
	Configure(ctx context.Context, config settings.Map) error

	// Name returns the provider name
	Name() string
}
