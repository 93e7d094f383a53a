package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sportsevents/factory"
	"sportsevents/models"
	"sportsevents/services"
)

func newCreateAdminCmd(app func() *factory.App) *cobra.Command {
	var req services.SignupRequest

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app().AuthService.CreateUser(cmd.Context(), &req, models.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Admin user created\nEmail: %s\nRole: %s\n", user.Email, user.Role)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Name, "name", "", "Full name")
	flags.StringVar(&req.RollNumber, "roll", "", "Roll number")
	flags.StringVar(&req.Course, "course", "", "Course")
	flags.StringVar(&req.Year, "year", "", "Year of study")
	flags.StringVar(&req.Email, "email", "", "Login email")
	flags.StringVar(&req.Password, "password", "", "Login password (at least 6 characters)")
	for _, name := range []string{"name", "roll", "course", "year", "email", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
