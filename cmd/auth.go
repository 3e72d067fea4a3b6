package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/djx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Auth runs the full browser authorization for one platform and persists the
// resulting tokens.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	platform := cmd.StringArg("platform")
	if platform == "" {
		return fmt.Errorf("%w: platform (mixcloud or soundcloud)", shared.ErrMissingArgument)
	}

	d, err := r.buildDeps(cmd)
	if err != nil {
		return err
	}

	provider, err := d.registry.Lookup(platform)
	if err != nil {
		return fmt.Errorf("%w, known platforms: %s", err, strings.Join(d.registry.Names(), ", "))
	}

	ctx, cancel := r.withTimeout(ctx, cmd, d.config)
	defer cancel()

	if _, err := d.flow.Authorize(ctx, provider); err != nil {
		return err
	}

	r.writePlain("✓ %s authorized\n", provider.Name)
	r.writePlain("Tokens saved to %s\n", d.store.Path())
	return nil
}

// Token prints a valid access token for the platform, refreshing a stale one
// or running the browser authorization first when nothing usable is stored.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	platform := cmd.StringArg("platform")
	if platform == "" {
		return fmt.Errorf("%w: platform (mixcloud or soundcloud)", shared.ErrMissingArgument)
	}

	d, err := r.buildDeps(cmd)
	if err != nil {
		return err
	}

	provider, err := d.registry.Lookup(platform)
	if err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx, cmd, d.config)
	defer cancel()

	token, err := d.manager.EnsureValidToken(ctx, provider)
	if err != nil {
		return err
	}

	return r.writePlain("%s\n", token)
}

// withTimeout bounds the wait for the browser redirect. The flag wins over the
// config value; zero or less waits until the process is interrupted.
func (r *Runner) withTimeout(ctx context.Context, cmd *cli.Command, config *shared.Config) (context.Context, context.CancelFunc) {
	seconds := config.Auth.TimeoutSeconds
	if cmd.IsSet("timeout") {
		seconds = cmd.Int("timeout")
	}

	if seconds <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}
