package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sportsevents/factory"
)

func newLookupCmd(app func() *factory.App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "lookup-student ROLL",
		Short: "Find an account by roll number",
		Long:  "Roll numbers are matched case-insensitively.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := app().AuthService.GetUserByRollNumber(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(user)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Name:\t%s\n", user.Name)
			fmt.Fprintf(tw, "Roll number:\t%s\n", user.RollNumber)
			fmt.Fprintf(tw, "Course:\t%s\n", user.Course)
			fmt.Fprintf(tw, "Year:\t%s\n", user.Year)
			fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
			fmt.Fprintf(tw, "Role:\t%s\n", user.Role)
			return tw.Flush()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json")
	return cmd
}
