package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sportsevents/factory"
	"sportsevents/models"
	"sportsevents/services"
)

// DefaultGames is the built-in event catalog.
var DefaultGames = []services.CreateGameRequest{
	registrable("100-Metre Race", "Fastest runner wins"),
	registrable("Chin-Up", "Maximum chin-ups competition"),
	registrable("400-Metre Race", "Endurance race"),
	registrable("Push-Up", "Maximum push-ups competition"),
	registrable("Lemon Spoon Race", "Balance and speed challenge"),
	registrable("Shot Put", "Longest throw wins"),
	registrable("Legs in Bag Race", "Fun team race"),
	registrable("Rope Skipping", "Skipping rope competition"),
	registrable("Slow Cycling", "Slowest cyclist wins"),
	registrable("Long Jump", "Longest jump wins"),
	registrable("Obstacle Race", "Navigate through obstacles"),
	registrable("Pitthu Gram", "Traditional Indian game"),
	registrable("Three-Leg Race", "Team coordination race"),
	registrable("Relay Race (4 × 100)", "Team relay race"),
	registrable("Kabaddi", "Traditional contact sport"),
	registrable("Tug of War", "Team strength competition"),
	{
		Name:             "Prize Distribution",
		Description:      "Award ceremony",
		RegistrationOpen: boolPtr(false),
		GameType:         models.GameTypeDisplayOnly,
	},
}

func registrable(name, description string) services.CreateGameRequest {
	return services.CreateGameRequest{
		Name:             name,
		Description:      description,
		RegistrationOpen: boolPtr(true),
		GameType:         models.GameTypeRegistrable,
	}
}

func boolPtr(b bool) *bool { return &b }

func newSeedCmd(app func() *factory.App) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "seed-games",
		Short: "Load the built-in game catalog",
		Long: `Creates every built-in game whose name is not already in the catalog.

With --reset the existing catalog is removed first. Registrations for removed
games are kept and show up without a game.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			games := app().GameService
			out := cmd.OutOrStdout()

			if reset {
				existing, err := games.List(ctx)
				if err != nil {
					return err
				}
				for _, game := range existing {
					if err := games.Delete(ctx, game.ID); err != nil && !errors.Is(err, models.ErrGameNotFound) {
						return fmt.Errorf("remove %q: %w", game.Name, err)
					}
				}
				fmt.Fprintf(out, "Removed %d existing games\n", len(existing))
			}

			created, skipped := 0, 0
			for i := range DefaultGames {
				req := DefaultGames[i]
				if _, err := games.Create(ctx, &req); err != nil {
					if errors.Is(err, models.ErrDuplicateGameName) {
						skipped++
						continue
					}
					return fmt.Errorf("create %q: %w", req.Name, err)
				}
				created++
			}

			fmt.Fprintf(out, "Seeded %d games (%d already present)\n", created, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Remove every existing game before seeding")
	return cmd
}
