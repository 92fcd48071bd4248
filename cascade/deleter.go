// Package cascade deletes a project together with the panels, buildings and
// facades that depend on it.
//
// Dependents are discovered under the caller's access scope, the operator is
// asked to confirm the blast radius, and rows are removed children first so
// that foreign keys declared ON DELETE RESTRICT never reject a delete. The
// operation is not transactional: a failure part way leaves earlier deletes in
// place, and re-running DeleteProject is the recovery path.
package cascade

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/facade-admin/access"
	"github.com/facade-admin/store"
)

// Target identifies the project to delete and the customer that owns it.
type Target struct {
	ID         string
	CustomerID string
}

// Confirmer asks the operator a yes/no question and blocks until answered.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// Observer receives timing and outcome events, typically for metrics.
type Observer interface {
	StepFinished(step string, elapsed time.Duration, err error)
	OutcomeRecorded(kind string, removed Counts)
}

// Option configures a Deleter.
type Option func(*Deleter)

// WithLogger sets the logger. The default discards output.
func WithLogger(log *logrus.Entry) Option {
	return func(d *Deleter) {
		d.log = log
	}
}

// WithObserver registers an observer for step timings and outcomes.
func WithObserver(o Observer) Option {
	return func(d *Deleter) {
		d.observer = o
	}
}

// Deleter performs cascading project deletes. It holds no per-call state and
// no locks; callers must keep two deletes of the same project from running
// at the same time.
type Deleter struct {
	store    store.DataStore
	confirm  Confirmer
	log      *logrus.Entry
	observer Observer
}

// NewDeleter creates a deleter over ds that asks confirm before removing
// dependents.
func NewDeleter(ds store.DataStore, confirm Confirmer, opts ...Option) *Deleter {
	silent := logrus.New()
	silent.Out = io.Discard
	d := &Deleter{
		store:   ds,
		confirm: confirm,
		log:     logrus.NewEntry(silent),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// WithConfirmer returns a copy of d that uses c for confirmation.
func (d *Deleter) WithConfirmer(c Confirmer) *Deleter {
	cp := *d
	cp.confirm = c
	return &cp
}

// discovery is what step 2 found. buildingIDs is reused for the facade delete.
type discovery struct {
	counts      Counts
	buildingIDs []string
}

// Preview runs the authorization check and dependency discovery without
// changing anything.
func (d *Deleter) Preview(ctx context.Context, target Target, scope access.Scope) (Counts, error) {
	if out, ok := d.precheck(target, scope); !ok {
		return Counts{}, out.Err
	}
	found, stage, err := d.discover(ctx, target, scope)
	if err != nil {
		return Counts{}, fmt.Errorf("%w: %s: %w", ErrDependencyCheckFailed, stage, err)
	}
	return found.counts, nil
}

// DeleteProject removes the project and its dependents and reports how it
// ended. It never returns a nil-kind outcome and never panics.
func (d *Deleter) DeleteProject(ctx context.Context, target Target, scope access.Scope) Outcome {
	log := d.log.WithFields(logrus.Fields{
		"project_id": target.ID,
		"scope":      scope.String(),
	})
	out := d.run(ctx, target, scope, log)
	if d.observer != nil {
		removed := Counts{}
		if out.Kind == Deleted {
			removed = out.Counts
		}
		d.observer.OutcomeRecorded(out.Kind.String(), removed)
	}

	entry := log.WithField("outcome", out.Kind.String())
	if out.OK() {
		entry.WithFields(logrus.Fields{
			"panels":    out.Counts.Panels,
			"buildings": out.Counts.Buildings,
			"facades":   out.Counts.Facades,
		}).Info("Project deleted")
	} else if out.Kind == Cancelled {
		entry.Info("Project deletion cancelled")
	} else {
		entry.WithError(out.Err).Warn("Project deletion failed")
	}
	return out
}

func (d *Deleter) run(ctx context.Context, target Target, scope access.Scope, log *logrus.Entry) Outcome {
	if out, ok := d.precheck(target, scope); !ok {
		return out
	}

	found, stage, err := d.discover(ctx, target, scope)
	if err != nil {
		return Outcome{
			Kind:  DependencyCheckFailed,
			Stage: stage,
			Err:   fmt.Errorf("%w: %s: %w", ErrDependencyCheckFailed, stage, err),
		}
	}
	counts := found.counts
	log.WithFields(logrus.Fields{
		"panels":    counts.Panels,
		"buildings": counts.Buildings,
		"facades":   counts.Facades,
	}).Debug("Dependencies discovered")

	var message string
	if counts.Total() > 0 {
		message = ConfirmationMessage(counts)
		ok, err := d.ask(ctx, message)
		if err != nil {
			return Outcome{Kind: Cancelled, Counts: counts, Message: message, Err: fmt.Errorf("%w: %w", ErrCancelled, err)}
		}
		if !ok {
			return Outcome{Kind: Cancelled, Counts: counts, Message: message, Err: ErrCancelled}
		}
	}

	filters := scope.Filters()
	plan := d.newPlan("delete")
	plan.AddIf(counts.Panels > 0, Step{Name: StagePanels, Run: func(ctx context.Context) error {
		return d.remove(ctx, log, store.TablePanels, withScope(filters, store.Eq(store.ColumnProjectID, target.ID))...)
	}})
	plan.AddIf(counts.Facades > 0, Step{Name: StageFacades, Run: func(ctx context.Context) error {
		return d.remove(ctx, log, store.TableFacades, withScope(filters, store.In(store.ColumnBuildingID, found.buildingIDs))...)
	}})
	plan.AddIf(counts.Buildings > 0, Step{Name: StageBuildings, Run: func(ctx context.Context) error {
		return d.remove(ctx, log, store.TableBuildings, withScope(filters, store.Eq(store.ColumnProjectID, target.ID))...)
	}})
	plan.Add(Step{Name: StageProject, Run: func(ctx context.Context) error {
		return d.remove(ctx, log, store.TableProjects, store.Eq(store.ColumnID, target.ID))
	}})

	failed, err := plan.Execute(ctx)
	completed := plan.Completed()
	switch {
	case err == nil:
		return Outcome{Kind: Deleted, Counts: counts, Message: message, Completed: completed}
	case failed == StageProject:
		return Outcome{
			Kind:       ProjectDeleteFailed,
			Counts:     counts,
			Message:    message,
			Referenced: errors.Is(err, store.ErrReferenced),
			Completed:  completed,
			Err:        fmt.Errorf("%w: %w", ErrProjectDeleteFailed, err),
		}
	default:
		return Outcome{
			Kind:      DependentDeleteFailed,
			Counts:    counts,
			Message:   message,
			Entity:    failed,
			Completed: completed,
			Err:       fmt.Errorf("%w: %s: %w", ErrDependentDeleteFailed, failed, err),
		}
	}
}

// precheck validates the request and the authorization gate. It performs no I/O.
func (d *Deleter) precheck(target Target, scope access.Scope) (Outcome, bool) {
	if target.ID == "" {
		return Outcome{Kind: InvalidRequest, Err: fmt.Errorf("%w: project id is empty", ErrInvalidRequest)}, false
	}
	if !scope.Allows(target.CustomerID) {
		return Outcome{Kind: Unauthorized, Err: ErrUnauthorized}, false
	}
	return Outcome{}, true
}

func (d *Deleter) discover(ctx context.Context, target Target, scope access.Scope) (discovery, string, error) {
	var found discovery
	filters := scope.Filters()
	byProject := withScope(filters, store.Eq(store.ColumnProjectID, target.ID))

	plan := d.newPlan("discover")
	plan.Add(Step{Name: StagePanels, Run: func(ctx context.Context) error {
		n, err := d.store.Count(ctx, store.TablePanels, byProject...)
		found.counts.Panels = n
		return err
	}})
	plan.Add(Step{Name: StageBuildings, Run: func(ctx context.Context) error {
		ids, err := d.store.SelectIDs(ctx, store.TableBuildings, byProject...)
		found.buildingIDs = ids
		found.counts.Buildings = int64(len(ids))
		return err
	}})
	plan.Add(Step{Name: StageFacades, Run: func(ctx context.Context) error {
		if len(found.buildingIDs) == 0 {
			return nil
		}
		n, err := d.store.Count(ctx, store.TableFacades, withScope(filters, store.In(store.ColumnBuildingID, found.buildingIDs))...)
		found.counts.Facades = n
		return err
	}})

	stage, err := plan.Execute(ctx)
	return found, stage, err
}

func (d *Deleter) ask(ctx context.Context, message string) (ok bool, err error) {
	if d.confirm == nil {
		return false, errors.New("no confirmer configured")
	}
	defer func() {
		if r := recover(); r != nil {
			ok, err = false, fmt.Errorf("confirmer panicked: %v", r)
		}
	}()
	return d.confirm.Confirm(ctx, message)
}

func (d *Deleter) remove(ctx context.Context, log *logrus.Entry, table string, filters ...store.Filter) error {
	n, err := d.store.Delete(ctx, table, filters...)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"table": table, "rows": n}).Debug("Rows deleted")
	return nil
}

func (d *Deleter) newPlan(name string) *Plan {
	plan := NewPlan(name)
	if d.observer != nil {
		plan.OnStepComplete = d.observer.StepFinished
	}
	return plan
}

func withScope(scope []store.Filter, filters ...store.Filter) []store.Filter {
	out := make([]store.Filter, 0, len(filters)+len(scope))
	out = append(out, filters...)
	return append(out, scope...)
}
