package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"sportsevents/config"
	"sportsevents/factory"
)

// Opener wires the application for a single command run.
type Opener func(ctx context.Context) (*factory.App, error)

// NewRootCmd creates the root command. open is called lazily by the
// subcommands that need storage.
func NewRootCmd(open Opener) *cobra.Command {
	var app *factory.App

	rootCmd := &cobra.Command{
		Use:   "sportsctl",
		Short: "Administration tool for the sports event registration service",
		Long: `sportsctl operates directly on the registration service's storage.

It seeds the game catalog, creates admin accounts and looks up students by
roll number.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opened, err := open(cmd.Context())
			if err != nil {
				return err
			}
			app = opened
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage: true,
	}

	current := func() *factory.App { return app }

	rootCmd.AddCommand(newSeedCmd(current))
	rootCmd.AddCommand(newCreateAdminCmd(current))
	rootCmd.AddCommand(newLookupCmd(current))

	return rootCmd
}

// Execute runs the root command against the configured backends.
func Execute() {
	if err := NewRootCmd(openFromEnv).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func openFromEnv(ctx context.Context) (*factory.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := config.NewLogger(os.Stderr, cfg.LogLevel)
	return factory.New(ctx, cfg, logger)
}
