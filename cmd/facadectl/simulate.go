package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/facade-admin/access"
	"github.com/facade-admin/cascade"
	"github.com/facade-admin/logging"
	"github.com/facade-admin/prompt"
	"github.com/facade-admin/store"
	"github.com/facade-admin/store/memstore"
)

type seedRow struct {
	table string
	id    string
	cols  map[string]string
}

// exampleRows is project P1 of customer T1 with buildings B1 and B2, three
// facades on B1 and five panels
func exampleRows() []seedRow {
	rows := []seedRow{
		{store.TableProjects, "P1", map[string]string{"customer_id": "T1"}},
		{store.TableBuildings, "B1", map[string]string{"project_id": "P1", "customer_id": "T1"}},
		{store.TableBuildings, "B2", map[string]string{"project_id": "P1", "customer_id": "T1"}},
	}
	for _, id := range []string{"F1", "F2", "F3"} {
		rows = append(rows, seedRow{store.TableFacades, id, map[string]string{"building_id": "B1", "customer_id": "T1"}})
	}
	for _, id := range []string{"X1", "X2", "X3", "X4", "X5"} {
		rows = append(rows, seedRow{store.TablePanels, id, map[string]string{"project_id": "P1", "customer_id": "T1"}})
	}
	return rows
}

func newSimulateCmd() *cobra.Command {
	var tenant string
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run the cascading delete against an in-memory example project",
		Long: `Seeds project P1 of customer T1 (2 buildings, 3 facades, 5 panels) into an
in-memory store, deletes it with automatic approval and prints the outcome
together with every store operation. No database is needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := access.Unrestricted()
			if tenant != "" {
				scope = access.RestrictedTo(tenant)
			}
			return simulate(cmd, cmd.OutOrStdout(), scope)
		},
	}
	cmd.Flags().StringVar(&tenant, "tenant", "T1", "customer scope to delete under (empty for unrestricted)")
	return cmd
}

func simulate(cmd *cobra.Command, w io.Writer, scope access.Scope) error {
	ds := memstore.NewDefault()
	for _, row := range exampleRows() {
		if _, err := ds.Insert(row.table, row.id, row.cols); err != nil {
			return err
		}
	}

	deleter := cascade.NewDeleter(ds,
		prompt.NewAutoApprove(logging.Component("prompt")),
		cascade.WithLogger(logging.Component("cascade")),
	)
	out := deleter.DeleteProject(cmd.Context(), cascade.Target{ID: "P1", CustomerID: "T1"}, scope)

	fmt.Fprintf(w, "Outcome: %s\n", out)
	if out.Message != "" {
		fmt.Fprintf(w, "Prompt:  %s\n", out.Message)
	}
	fmt.Fprintln(w, "Store operations:")
	for i, op := range ds.Journal() {
		fmt.Fprintf(w, "  %2d. %s\n", i+1, op)
	}
	return reportOutcome(io.Discard, "P1", out)
}
