// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func timeoutFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:  "timeout",
		Usage: "Seconds to wait for the browser redirect (0 waits until interrupted)",
	}
}

// authCommand runs the interactive browser authorization for one platform.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize a platform account in the browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "platform"},
		},
		Flags: []cli.Flag{
			configFlag(),
			timeoutFlag(),
		},
		Action: r.Auth,
	}
}

// statusCommand reports stored authorization state without touching the network.
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show authorization status for each platform",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "platform"},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

// tokenCommand prints a ready-to-use access token for scripts and curl pipelines.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Print a valid access token, refreshing or authorizing first when needed",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "platform"},
		},
		Flags: []cli.Flag{
			configFlag(),
			timeoutFlag(),
		},
		Action: r.Token,
	}
}

// setupCommand handles configuration scaffolding.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a configuration template to fill in with app credentials",
				Flags: []cli.Flag{
					configFlag(),
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive account management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for account authorization",
		Flags: []cli.Flag{
			configFlag(),
		},
		Action: r.TUI,
	}
}
