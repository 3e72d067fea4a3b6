package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/auth"
	"github.com/desertthunder/djx/internal/platforms"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/desertthunder/djx/internal/tokens"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	environ shared.Environ
	client  *http.Client
	logger  *log.Logger
	output  io.Writer
	flow    auth.Authorizer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Environ    shared.Environ
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer

	// Flow replaces the interactive browser flow, for tests.
	Flow auth.Authorizer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		environ: opts.Environ,
		client:  opts.HTTPClient,
		logger:  opts.Logger,
		output:  opts.Output,
		flow:    opts.Flow,
	}
}

// SetLogger swaps the runner's logger, used when the TUI takes over the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, statusCommand, tokenCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// deps is the per-invocation dependency graph. Commands resolve their
// configuration first, then build everything that hangs off it.
type deps struct {
	config   *shared.Config
	registry *platforms.Registry
	store    *tokens.Store
	flow     auth.Authorizer
	manager  *auth.Manager
}

func (r *Runner) buildDeps(cmd *cli.Command) (*deps, error) {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	registry, err := platforms.NewRegistry(config)
	if err != nil {
		return nil, err
	}

	path, err := r.tokenPath(config)
	if err != nil {
		return nil, err
	}
	store := tokens.NewStore(path)

	exchanger := auth.NewExchanger(r.client, r.logger)

	flow := r.flow
	if flow == nil {
		flow = auth.NewFlow(store, auth.FlowOpts{
			Exchanger: exchanger,
			Output:    r.output,
			Logger:    r.logger,
		})
	}

	manager := auth.NewManager(store, flow, auth.ManagerOpts{
		Exchanger: exchanger,
		Logger:    r.logger,
	})

	return &deps{config: config, registry: registry, store: store, flow: flow, manager: manager}, nil
}

// loadConfig resolves configuration for one command invocation. An explicitly
// passed --config path must exist; the default falls back to the current
// directory, then the config directory, then built-in placeholders.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		return shared.LoadConfig(path)
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}

	dir, err := r.environ.ConfigDir()
	if err != nil {
		return nil, err
	}
	fallback := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(fallback); err == nil {
		return shared.LoadConfig(fallback)
	}

	r.logger.Warn("no config file found, using built-in defaults", "tried", path, "fallback", fallback)
	return shared.DefaultConfig(), nil
}

// tokenPath picks the token file location: the config override when set,
// otherwise the conventional per-user path.
func (r *Runner) tokenPath(config *shared.Config) (string, error) {
	if config.Tokens.Path != "" {
		return config.Tokens.Path, nil
	}
	return tokens.DefaultPath(r.environ)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
