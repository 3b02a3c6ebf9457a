package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ProviderFactory is a function that creates a new provider instance
type ProviderFactory func() Provider

// Registry holds all available upload providers
var Registry = make(map[string]ProviderFactory)

// RegisterProvider registers a new upload provider
func RegisterProvider(name string, factory ProviderFactory) {
	Registry[name] = factory
}

// NewProvider creates a new provider instance by name
func NewProvider(name string) (Provider, error) {
	factory, ok := Registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown upload provider: %s", name)
	}
	return factory(), nil
}

func init() {
	RegisterProvider("minio", func() Provider {
		return NewMinioProvider()
	})
}

// Artifact is a local file and the remote path it is stored under
type Artifact struct {
	Local  string
	Remote string
}

// UploadAll uploads every artifact, continuing past failures. The returned
// error joins all failures.
func UploadAll(ctx context.Context, p Provider, artifacts []Artifact) error {
	var errs []error
	for _, a := range artifacts {
		if err := uploadFile(ctx, p, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func uploadFile(ctx context.Context, p Provider, a Artifact) error {
	f, err := os.Open(a.Local)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", a.Local, err)
	}
	defer f.Close()

	if err := p.Upload(ctx, f, a.Remote); err != nil {
		return fmt.Errorf("failed to upload %s: %w", a.Local, err)
	}
	return nil
}
