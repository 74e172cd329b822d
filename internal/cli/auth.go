package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func signInCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:         "signin",
		Short:       "Sign in with any email and password",
		Annotations: page("/signin"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.session.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func signUpCmd(a *app) *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:         "signup",
		Short:       "Create an account",
		Annotations: page("/signup"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.session.SignUp(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", user.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func signOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out of the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in profile",
		Annotations: page("/profile"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, _ := a.session.User()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Name:  %s\n", user.Name)
			fmt.Fprintf(out, "Email: %s\n", user.Email)
			fmt.Fprintf(out, "ID:    %s\n", user.ID)
			return nil
		},
	}
}
