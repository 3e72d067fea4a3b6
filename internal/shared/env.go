package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// appDirName is the directory holding djx state under the config root.
const appDirName = "djx"

// Environ captures the process environment variables djx honors.
type Environ struct {
	ConfigHome    string `env:"DJX_CONFIG_HOME"`
	XDGConfigHome string `env:"XDG_CONFIG_HOME"`
	LogLevel      string `env:"DJX_LOG_LEVEL"`
}

// ParseEnviron reads the process environment into an [Environ].
func ParseEnviron() (Environ, error) {
	var e Environ
	if err := env.Parse(&e); err != nil {
		return Environ{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return e, nil
}

// ConfigDir resolves the directory where djx keeps its state, such as the
// token file.
//
// Precedence: $DJX_CONFIG_HOME, then $XDG_CONFIG_HOME, then ~/.config, each
// joined with the application directory name.
func (e Environ) ConfigDir() (string, error) {
	if e.ConfigHome != "" {
		return filepath.Join(e.ConfigHome, appDirName), nil
	}

	if e.XDGConfigHome != "" {
		return filepath.Join(e.XDGConfigHome, appDirName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", appDirName), nil
}
