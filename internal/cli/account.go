package cli

import (
	"github.com/spf13/cobra"

	"github.com/agrofix/agrofix-backend/pkg/types"
)

func (a *app) registerCommand() *cobra.Command {
	var req types.RegisterRequest
	var email, fullName, phone string
	cmd := &cobra.Command{
		Use:   "register <username> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username, req.Password = args[0], args[1]
			req.Email = optional(email)
			req.FullName = optional(fullName)
			req.Phone = optional(phone)
			res, err := a.api.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.signedIn(cmd, res)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "full name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone")
	return cmd
}

func (a *app) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Sign in; the server cart replaces the local one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.api.Login(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.signedIn(cmd, res)
		},
	}
}

func (a *app) signedIn(cmd *cobra.Command, res *types.AuthResult) error {
	a.session = session{Token: res.Token, UserID: res.User.ID, Username: res.User.Username, IsAdmin: res.User.IsAdmin}
	if err := a.saveSession(); err != nil {
		return err
	}
	if err := a.cart.Login(cmd.Context(), res.User.ID); err != nil {
		return err
	}
	a.printf("signed in as %s\n", res.User.Username)
	a.printCart()
	return nil
}

func (a *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and revoke the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiErr := a.api.Logout(cmd.Context())
			a.session = session{}
			if err := a.saveSession(); err != nil {
				return err
			}
			if err := a.cart.Logout(); err != nil {
				return err
			}
			if apiErr != nil {
				return apiErr
			}
			a.printf("signed out\n")
			return nil
		},
	}
}

func (a *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := a.api.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			role := "buyer"
			if user.IsAdmin {
				role = "admin"
			}
			a.printf("%s (id %d, %s)\n", user.Username, user.ID, role)
			return nil
		},
	}
}
