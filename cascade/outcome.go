package cascade

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the terminal state of one DeleteProject call.
type Kind int

const (
	Deleted Kind = iota
	Unauthorized
	InvalidRequest
	DependencyCheckFailed
	Cancelled
	DependentDeleteFailed
	ProjectDeleteFailed
)

var kindNames = map[Kind]string{
	Deleted:               "deleted",
	Unauthorized:          "unauthorized",
	InvalidRequest:        "invalid_request",
	DependencyCheckFailed: "dependency_check_failed",
	Cancelled:             "cancelled",
	DependentDeleteFailed: "dependent_delete_failed",
	ProjectDeleteFailed:   "project_delete_failed",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel errors wrapped by Outcome.Err.
var (
	ErrUnauthorized          = errors.New("project belongs to another customer")
	ErrInvalidRequest        = errors.New("invalid delete request")
	ErrDependencyCheckFailed = errors.New("dependency check failed")
	ErrCancelled             = errors.New("deletion cancelled")
	ErrDependentDeleteFailed = errors.New("deleting dependent records failed")
	ErrProjectDeleteFailed   = errors.New("deleting project failed")
)

// Stage and entity names. Discovery stages and delete steps share them.
const (
	StagePanels    = "panels"
	StageBuildings = "buildings"
	StageFacades   = "facades"
	StageProject   = "project"
)

// Counts holds the number of dependent rows per category.
type Counts struct {
	Panels    int64 `json:"panels"`
	Buildings int64 `json:"buildings"`
	Facades   int64 `json:"facades"`
}

// Total returns the number of dependent rows across all categories.
func (c Counts) Total() int64 {
	return c.Panels + c.Buildings + c.Facades
}

// Summary lists the non-zero categories as "5 panel(s), 3 facade(s), 2 building(s)".
func (c Counts) Summary() string {
	var parts []string
	if c.Panels > 0 {
		parts = append(parts, fmt.Sprintf("%d panel(s)", c.Panels))
	}
	if c.Facades > 0 {
		parts = append(parts, fmt.Sprintf("%d facade(s)", c.Facades))
	}
	if c.Buildings > 0 {
		parts = append(parts, fmt.Sprintf("%d building(s)", c.Buildings))
	}
	return strings.Join(parts, ", ")
}

// Outcome is the result of DeleteProject.
type Outcome struct {
	Kind Kind
	// Counts holds the discovered dependents. For Deleted these are the
	// removed rows.
	Counts Counts
	// Stage is the discovery stage that failed for DependencyCheckFailed.
	Stage string
	// Entity is the dependent table whose delete failed for DependentDeleteFailed.
	Entity string
	// Referenced is set on ProjectDeleteFailed when the store reported the
	// project row as still referenced by another table.
	Referenced bool
	// Message is the confirmation text shown to the operator, if any.
	Message string
	// Completed names the delete steps that finished before the outcome.
	Completed []string
	Err       error
}

// OK reports whether the project was deleted.
func (o Outcome) OK() bool {
	return o.Kind == Deleted
}

func (o Outcome) String() string {
	switch o.Kind {
	case Deleted:
		return fmt.Sprintf("deleted (panels=%d buildings=%d facades=%d)", o.Counts.Panels, o.Counts.Buildings, o.Counts.Facades)
	case DependencyCheckFailed:
		return fmt.Sprintf("%s at %s: %v", o.Kind, o.Stage, o.Err)
	case DependentDeleteFailed:
		return fmt.Sprintf("%s for %s: %v", o.Kind, o.Entity, o.Err)
	}
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Kind, o.Err)
	}
	return o.Kind.String()
}
