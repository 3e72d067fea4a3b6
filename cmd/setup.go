package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/djx/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a configuration template for the user to fill in with
// the client id and secret of their registered apps. Secrets stay out of the
// binary; the template only carries placeholders.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	if !cmd.IsSet("config") {
		dir, err := r.environ.ConfigDir()
		if err != nil {
			return err
		}
		path = filepath.Join(dir, "config.toml")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Config template written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Register an app on each platform's developer page and paste the client id and secret\n")
	r.writePlain("2. Run 'djx auth mixcloud' or 'djx auth soundcloud' to connect the account\n")

	return nil
}
