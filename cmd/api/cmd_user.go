package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user"
	userrepo "github.com/ovaphlow/pitchfork/service-catalog-go-stdlib/internal/user/repo"
)

func userCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts.",
	}

	cmd.AddCommand(
		setDisabledCmd("disable", "Disable a user; their tokens stop working immediately.", true),
		setDisabledCmd("enable", "Re-enable a disabled user.", false),
	)

	return cmd
}

func setDisabledCmd(use, short string, disabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := user.NewUserService(userrepo.NewUserRepo(db), nil)
			if err := svc.SetDisabled(cmd.Context(), args[0], disabled); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %sd\n", args[0], use)
			return err
		},
	}
}
