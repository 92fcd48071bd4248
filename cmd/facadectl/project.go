package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/logging"
	"github.com/facade-admin/models"
	"github.com/facade-admin/prompt"
	"github.com/facade-admin/services"
)

// operatorID is recorded as the actor of deletes run from the CLI
const operatorID = "facadectl"

func newProjectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect and delete projects",
	}
	cmd.AddCommand(newProjectDeleteCmd(a))
	cmd.AddCommand(newProjectPreviewCmd(a))
	return cmd
}

// operator is the principal of CLI commands. With a tenant it acts as that
// customer, so only the customer's rows are visible.
func operator(tenant string) access.Principal {
	if tenant != "" {
		return access.Principal{UserID: operatorID, Role: models.RoleCustomer, CustomerID: tenant}
	}
	return access.Principal{UserID: operatorID, Role: models.RoleAdmin}
}

func newProjectDeleteCmd(a *app) *cobra.Command {
	var (
		yes    bool
		tenant string
	)
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project together with its panels, facades and buildings",
		Long: `Deletes a project and everything that depends on it.

The dependent rows are counted first and you are asked to confirm before
anything is removed. Use --yes to skip the question in scripts.

Exit codes:
  0  project deleted
  1  deletion cancelled
  2  any other failure`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, closeFn, err := a.openProjects(a.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			var confirmer cascade.Confirmer = prompt.NewInteractiveWithIO(a.in, cmd.OutOrStdout())
			if yes {
				confirmer = prompt.NewAutoApprove(logging.Component("prompt"))
			}
			out, err := projects.DeleteProject(cmd.Context(), operator(tenant), args[0], services.DeleteOptions{
				Confirmer:         confirmer,
				AuditCancellation: true,
			})
			if err != nil {
				return err
			}
			return reportOutcome(cmd.OutOrStdout(), args[0], out)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking for confirmation")
	cmd.Flags().StringVar(&tenant, "tenant", "", "act as this customer id")
	return cmd
}

func newProjectPreviewCmd(a *app) *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "preview <project-id>",
		Short: "Show what deleting a project would remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, closeFn, err := a.openProjects(a.cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			preview, err := projects.PreviewDelete(cmd.Context(), operator(tenant), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Project:   %s\n", preview.ProjectID)
			fmt.Fprintf(w, "Panels:    %d\n", preview.Counts.Panels)
			fmt.Fprintf(w, "Facades:   %d\n", preview.Counts.Facades)
			fmt.Fprintf(w, "Buildings: %d\n", preview.Counts.Buildings)
			if preview.Message != "" {
				fmt.Fprintln(w, preview.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "", "act as this customer id")
	return cmd
}

// reportOutcome prints the outcome and turns anything but Deleted into an
// exitError
func reportOutcome(w io.Writer, projectID string, out cascade.Outcome) error {
	switch out.Kind {
	case cascade.Deleted:
		if out.Counts.Total() > 0 {
			fmt.Fprintf(w, "Deleted project %s with %s.\n", projectID, out.Counts.Summary())
		} else {
			fmt.Fprintf(w, "Deleted project %s.\n", projectID)
		}
		return nil
	case cascade.Cancelled:
		fmt.Fprintln(w, "Deletion cancelled. Nothing was removed.")
		return &exitError{code: 1, err: out.Err}
	}

	if len(out.Completed) > 0 {
		fmt.Fprintf(w, "Steps completed before the failure: %v\n", out.Completed)
		fmt.Fprintln(w, "Run the command again to finish the delete.")
	}
	err := out.Err
	if err == nil {
		err = errors.New(out.Kind.String())
	}
	return &exitError{code: 2, err: fmt.Errorf("%s: %w", out.Kind, err)}
}
