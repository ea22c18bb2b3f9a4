package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage your lounge identity",
	}

	cmd.AddCommand(
		newProfileShowCmd(app),
		newProfileSetCmd(app),
	)

	return cmd
}

func newProfileShowCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your author id and display name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := app.profiles.Current(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "author_id\t%s\ndisplay_name\t%s\n", profile.AuthorID, sanitizeForTerminal(profile.DisplayName))
			return err
		},
	}
}

func newProfileSetCmd(app *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change your display name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := app.profiles.SetDisplayName(cmd.Context(), name)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "display name set to %s\n", sanitizeForTerminal(profile.DisplayName))
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name shown next to your messages")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}
