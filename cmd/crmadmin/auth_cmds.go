package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(holder *appHolder) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login --email <email> --password <password>",
		Short: "Authenticate and persist the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			profile, err := holder.app.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s), scope %s\n", profile.Name, profile.Email, profile.CompanyID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")

	return cmd
}

func newLogoutCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return holder.app.auth.Logout(cmd.Context())
		},
	}
}

func newWhoamiCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(_ *cobra.Command, _ []string) error {
			sess := holder.app.session
			profile, ok := sess.Profile()
			if !ok {
				fmt.Println("Not logged in")
				return nil
			}
			fmt.Printf("%s <%s>\nscope: %s\nrole group: %s\n",
				profile.Name, profile.Email, sess.ScopeID(), sess.RoleGroup())
			return nil
		},
	}
}

func newPasswdCmd(holder *appHolder) *cobra.Command {
	var oldPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "passwd --old <password> --new <password>",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := holder.app.auth.ChangePassword(cmd.Context(), oldPassword, newPassword); err != nil {
				return err
			}
			fmt.Println("Password changed")
			return nil
		},
	}

	cmd.Flags().StringVar(&oldPassword, "old", "", "current password")
	cmd.Flags().StringVar(&newPassword, "new", "", "new password")

	return cmd
}

func newSwitchScopeCmd(holder *appHolder) *cobra.Command {
	return &cobra.Command{
		Use:   "switch-scope <company-id>",
		Short: "Switch the active company scope and refetch everything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := holder.app.session.SwitchScope(args[0]); err != nil {
				return err
			}
			fmt.Printf("Active scope is now %s\n", args[0])
			return nil
		},
	}
}
