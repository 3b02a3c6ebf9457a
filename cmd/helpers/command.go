package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zinc-sig/gradeghost/cmd/config"
	"github.com/zinc-sig/gradeghost/internal/history"
	"github.com/zinc-sig/gradeghost/internal/labconfig"
)

// ParseTimeout parses and validates a timeout duration string
func ParseTimeout(timeoutStr string) (time.Duration, error) {
	if timeoutStr == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout duration: %w", err)
	}

	if timeout <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}

	return timeout, nil
}

// ValidateCommonFlags parses the timeout and checks the repository path
func ValidateCommonFlags(flags *config.CommonFlags) error {
	timeout, err := ParseTimeout(flags.TimeoutStr)
	if err != nil {
		return err
	}
	flags.Timeout = timeout

	if flags.Window < 0 {
		return fmt.Errorf("window must not be negative")
	}

	info, err := os.Stat(flags.Repo)
	if err != nil {
		return fmt.Errorf("repository %s: %w", flags.Repo, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("repository %s is not a directory", flags.Repo)
	}
	return nil
}

// LoadLab reads the lab configuration and applies flag overrides
func LoadLab(flags *config.CommonFlags) (*labconfig.Lab, error) {
	path := flags.LabConfig
	if path != "" && !filepath.IsAbs(path) {
		if _, err := os.Stat(path); err != nil {
			// Relative to the checkout when not found from the working directory
			path = filepath.Join(flags.Repo, path)
		}
	}

	lab, err := labconfig.Load(path)
	if err != nil {
		return nil, err
	}

	if flags.Due != "" {
		if err := lab.SetDue(flags.Due); err != nil {
			return nil, fmt.Errorf("invalid --due: %w", err)
		}
	}
	if flags.Window > 0 {
		lab.Window = flags.Window
	}
	if flags.Timeout > 0 {
		lab.Timeout = flags.Timeout
	}
	return lab, nil
}

// OpenHistory opens the selected history backend on the repository
func OpenHistory(flags *config.CommonFlags) (history.Provider, error) {
	provider, err := history.Open(flags.HistoryBackend, flags.Repo)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return provider, nil
}
