package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/zinc-sig/gradeghost/internal/settings"
)

// MinioProvider implements the Provider interface for MinIO/S3 storage
type MinioProvider struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewMinioProvider creates a new MinioProvider
func NewMinioProvider() *MinioProvider {
	return &MinioProvider{}
}

// Name returns the provider name
func (m *MinioProvider) Name() string {
	return "minio"
}

// Configure creates the client and checks that the bucket exists.
// Required keys: endpoint, access_key, secret_key, bucket. Optional:
// secure (default true, overridden by an http:// or https:// endpoint),
// region (default us-east-1), prefix.
func (m *MinioProvider) Configure(ctx context.Context, config settings.Map) error {
	rawEndpoint, ok := config.String("endpoint")
	if !ok {
		return fmt.Errorf("minio: endpoint is required")
	}
	accessKey, ok := config.String("access_key")
	if !ok {
		return fmt.Errorf("minio: access_key is required")
	}
	secretKey, ok := config.String("secret_key")
	if !ok {
		return fmt.Errorf("minio: secret_key is required")
	}
	bucket, ok := config.String("bucket")
	if !ok {
		return fmt.Errorf("minio: bucket is required")
	}

	endpoint, secure, err := parseEndpoint(rawEndpoint, config.Bool("secure", true))
	if err != nil {
		return err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: config.StringOr("region", "us-east-1"),
	})
	if err != nil {
		return fmt.Errorf("minio: failed to create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("minio: failed to check bucket existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("minio: bucket %s does not exist", bucket)
	}

	m.client = client
	m.bucket = bucket
	m.prefix = strings.Trim(config.StringOr("prefix", ""), "/")
	return nil
}

// parseEndpoint strips an http:// or https:// scheme, which then decides
// whether TLS is used
func parseEndpoint(raw string, secure bool) (string, bool, error) {
	if !strings.Contains(raw, "://") {
		return raw, secure, nil
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("minio: invalid endpoint URL: %s", raw)
	}

	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	default:
		return "", false, fmt.Errorf("minio: invalid endpoint URL: unsupported scheme %q", u.Scheme)
	}
}

// ObjectName joins the configured prefix and the remote path
func (m *MinioProvider) ObjectName(remotePath string) string {
	if m.prefix == "" {
		return remotePath
	}
	return path.Join(m.prefix, remotePath)
}

// Upload streams content to the bucket
func (m *MinioProvider) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	if m.client == nil {
		return fmt.Errorf("minio: provider not configured")
	}

	objectName := m.ObjectName(remotePath)

	// -1: unknown size, streamed as multipart
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, -1, minio.PutObjectOptions{
		ContentType: contentType(objectName),
	})
	if err != nil {
		return fmt.Errorf("minio: failed to upload to %s: %w", objectName, err)
	}
	return nil
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".csv":
		return "text/csv"
	case ".md":
		return "text/markdown"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
