package access

import "github.com/facade-admin/models"

// Resource is something a permission applies to.
type Resource string

// Action is an operation on a resource.
type Action string

const (
	ResourceProjects   Resource = "projects"
	ResourceCustomers  Resource = "customers"
	ResourceUsers      Resource = "users"
	ResourceNotes      Resource = "notes"
	ResourceStructures Resource = "structures" // buildings, facades and panels
	ResourceDeletions  Resource = "deletions"
)

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

var (
	allActions  = []Action{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
	readOnly    = []Action{ActionRead}
	readWrite   = []Action{ActionRead, ActionCreate, ActionUpdate}
	permissions = map[models.Role]map[Resource][]Action{
		models.RoleAdmin: {
			ResourceProjects:   allActions,
			ResourceCustomers:  allActions,
			ResourceUsers:      allActions,
			ResourceNotes:      allActions,
			ResourceStructures: allActions,
			ResourceDeletions:  readOnly,
		},
		models.RoleManager: {
			ResourceProjects:   allActions,
			ResourceCustomers:  allActions,
			ResourceUsers:      readOnly,
			ResourceNotes:      allActions,
			ResourceStructures: allActions,
			ResourceDeletions:  readOnly,
		},
		models.RoleCustomer: {
			ResourceProjects:   allActions,
			ResourceNotes:      allActions,
			ResourceStructures: allActions,
		},
		models.RoleViewer: {
			ResourceProjects:   readOnly,
			ResourceCustomers:  readOnly,
			ResourceNotes:      readWrite,
			ResourceStructures: readOnly,
		},
	}
)

// Can reports whether role may perform action on resource.
func Can(role models.Role, resource Resource, action Action) bool {
	for _, a := range permissions[role][resource] {
		if a == action {
			return true
		}
	}
	return false
}
