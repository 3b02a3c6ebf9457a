package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zinc-sig/gradeghost/internal/settings"
)

// MockProvider implements Provider for testing
type MockProvider struct {
	name       string
	configured bool
	uploadErr  error
	uploads    []mockUpload
}

type mockUpload struct {
	content    string
	remotePath string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{name: name}
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Configure(ctx context.Context, config settings.Map) error {
	m.configured = true
	return nil
}

func (m *MockProvider) Upload(ctx context.Context, reader io.Reader, remotePath string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	m.uploads = append(m.uploads, mockUpload{
		content:    string(content),
		remotePath: remotePath,
	})
	return nil
}

func TestProviderRegistry(t *testing.T) {
	testProviderName := "test-provider"
	RegisterProvider(testProviderName, func() Provider {
		return NewMockProvider(testProviderName)
	})

	provider, err := NewProvider(testProviderName)
	if err != nil {
		t.Fatalf("Failed to create registered provider: %v", err)
	}
	if provider.Name() != testProviderName {
		t.Errorf("Expected provider name %s, got %s", testProviderName, provider.Name())
	}

	if _, err := NewProvider("minio"); err != nil {
		t.Errorf("minio should be registered: %v", err)
	}

	if _, err := NewProvider("unknown-provider"); err == nil {
		t.Error("Expected error for unknown provider, got nil")
	}
}

func writeArtifact(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUploadAll(t *testing.T) {
	dir := t.TempDir()
	csv := writeArtifact(t, dir, "grade.csv", "student_username,obtained_marks,total_marks,status\n")
	md := writeArtifact(t, dir, "README.md", "# Lab\n")

	provider := NewMockProvider("test")
	if err := provider.Configure(context.Background(), settings.Map{}); err != nil {
		t.Fatal(err)
	}

	err := UploadAll(context.Background(), provider, []Artifact{
		{Local: csv, Remote: "lab/sara/grade.csv"},
		{Local: md, Remote: "lab/sara/feedback/README.md"},
	})
	if err != nil {
		t.Fatalf("UploadAll() error = %v", err)
	}

	if len(provider.uploads) != 2 {
		t.Fatalf("Expected 2 uploads, got %d", len(provider.uploads))
	}
	if provider.uploads[1].remotePath != "lab/sara/feedback/README.md" || provider.uploads[1].content != "# Lab\n" {
		t.Errorf("unexpected upload: %+v", provider.uploads[1])
	}
}

func TestUploadAllContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	md := writeArtifact(t, dir, "README.md", "# Lab\n")

	provider := NewMockProvider("test")
	err := UploadAll(context.Background(), provider, []Artifact{
		{Local: filepath.Join(dir, "missing.csv"), Remote: "grade.csv"},
		{Local: md, Remote: "README.md"},
	})
	if err == nil || !strings.Contains(err.Error(), "missing.csv") {
		t.Fatalf("UploadAll() error = %v, want missing file", err)
	}
	if len(provider.uploads) != 1 {
		t.Errorf("second artifact should still upload, got %d uploads", len(provider.uploads))
	}

	provider.uploadErr = errors.New("bucket full")
	err = UploadAll(context.Background(), provider, []Artifact{{Local: md, Remote: "README.md"}})
	if err == nil || !strings.Contains(err.Error(), "bucket full") {
		t.Errorf("UploadAll() error = %v, want provider error", err)
	}
}

func TestMinioProviderName(t *testing.T) {
	if name := NewMinioProvider().Name(); name != "minio" {
		t.Errorf("Expected provider name 'minio', got %s", name)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name         string
		endpoint     string
		secure       bool
		wantEndpoint string
		wantSecure   bool
		wantErr      bool
	}{
		{name: "http protocol", endpoint: "http://localhost:9000", secure: true, wantEndpoint: "localhost:9000", wantSecure: false},
		{name: "https protocol", endpoint: "https://s3.amazonaws.com", secure: false, wantEndpoint: "s3.amazonaws.com", wantSecure: true},
		{name: "no protocol keeps secure=true", endpoint: "localhost:9000", secure: true, wantEndpoint: "localhost:9000", wantSecure: true},
		{name: "no protocol keeps secure=false", endpoint: "localhost:9000", secure: false, wantEndpoint: "localhost:9000", wantSecure: false},
		{name: "protocol only", endpoint: "http://", wantErr: true},
		{name: "unsupported scheme", endpoint: "ftp://files.example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, secure, err := parseEndpoint(tt.endpoint, tt.secure)
			if tt.wantErr {
				if err == nil || !strings.Contains(err.Error(), "invalid endpoint URL") {
					t.Errorf("parseEndpoint() error = %v, want invalid endpoint URL", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseEndpoint() error = %v", err)
			}
			if endpoint != tt.wantEndpoint || secure != tt.wantSecure {
				t.Errorf("parseEndpoint() = %q, %v, want %q, %v", endpoint, secure, tt.wantEndpoint, tt.wantSecure)
			}
		})
	}
}

func TestMinioProviderConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config settings.Map
		errMsg string
	}{
		{name: "missing endpoint", config: settings.Map{}, errMsg: "endpoint is required"},
		{name: "missing access_key", config: settings.Map{"endpoint": "localhost:9000"}, errMsg: "access_key is required"},
		{
			name:   "missing secret_key",
			config: settings.Map{"endpoint": "localhost:9000", "access_key": "minioadmin"},
			errMsg: "secret_key is required",
		},
		{
			name:   "missing bucket",
			config: settings.Map{"endpoint": "localhost:9000", "access_key": "minioadmin", "secret_key": "minioadmin"},
			errMsg: "bucket is required",
		},
		{
			name: "invalid endpoint URL",
			config: settings.Map{
				"endpoint":   "http://",
				"access_key": "minioadmin",
				"secret_key": "minioadmin",
				"bucket":     "test",
			},
			errMsg: "invalid endpoint URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMinioProvider().Configure(context.Background(), tt.config)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %q", tt.errMsg, err.Error())
			}
		})
	}
}

func TestMinioObjectName(t *testing.T) {
	tests := []struct {
		prefix string
		remote string
		want   string
	}{
		{prefix: "", remote: "lab/sara/grade.csv", want: "lab/sara/grade.csv"},
		{prefix: "fall-2025", remote: "lab/sara/grade.csv", want: "fall-2025/lab/sara/grade.csv"},
	}

	for _, tt := range tests {
		m := &MinioProvider{prefix: tt.prefix}
		if got := m.ObjectName(tt.remote); got != tt.want {
			t.Errorf("ObjectName(%q) with prefix %q = %q, want %q", tt.remote, tt.prefix, got, tt.want)
		}
	}

	if err := NewMinioProvider().Upload(context.Background(), strings.NewReader("x"), "a"); err == nil {
		t.Error("Upload on an unconfigured provider should fail")
	}
}
