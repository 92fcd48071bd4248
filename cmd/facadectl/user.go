package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
	"github.com/facade-admin/utils"
)

// accounts is the part of the auth service the CLI drives
type accounts interface {
	CreateAccount(ctx context.Context, req dto.RegisterRequest, role models.Role, customerID *string) (*models.User, error)
}

func newUserCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	var (
		email    string
		name     string
		password string
		role     string
		customer string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user account with any role",
		Long: `Creates a user account directly in the database. Self registration over the
API only creates viewers, so use this to bootstrap the first admin.

A random password is generated and printed when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			generated := password == ""
			if generated {
				var err error
				if password, err = utils.GenerateSecurePassword(16); err != nil {
					return err
				}
			} else if len(password) < utils.MinPasswordLength {
				return fmt.Errorf("password must be at least %d characters", utils.MinPasswordLength)
			}
			req := dto.RegisterRequest{Email: email, Password: password}
			if name != "" {
				req.Name = &name
			}
			var customerID *string
			if customer != "" {
				customerID = &customer
			}

			svc, closeFn, err := a.openAccounts(a.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			user, err := svc.CreateAccount(cmd.Context(), req, models.Role(role), customerID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			if generated {
				fmt.Fprintf(w, "Password: %s\n", password)
			}
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "", "display name")
	create.Flags().StringVar(&password, "password", "", "password (generated when empty)")
	create.Flags().StringVar(&role, "role", string(models.RoleAdmin), "admin, manager, customer or viewer")
	create.Flags().StringVar(&customer, "customer", "", "customer id, required for the customer role")
	_ = create.MarkFlagRequired("email")
	cmd.AddCommand(create)

	return cmd
}
