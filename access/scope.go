// Package access resolves who may see and change which rows.
package access

import (
	"fmt"

	"github.com/facade-admin/models"
	"github.com/facade-admin/store"
)

// Scope is the row visibility of the acting principal. The zero value is
// unrestricted.
type Scope struct {
	restricted bool
	tenantID   string
}

// Unrestricted returns a scope that sees every tenant's rows.
func Unrestricted() Scope {
	return Scope{}
}

// RestrictedTo returns a scope limited to rows of one customer.
func RestrictedTo(tenantID string) Scope {
	return Scope{restricted: true, tenantID: tenantID}
}

// IsRestricted reports whether the scope filters by tenant.
func (s Scope) IsRestricted() bool {
	return s.restricted
}

// TenantID returns the tenant the scope is restricted to. It is only
// meaningful when IsRestricted is true.
func (s Scope) TenantID() string {
	return s.tenantID
}

// Allows reports whether a row owned by tenantID is visible in this scope.
// A restricted scope with no tenant sees nothing.
func (s Scope) Allows(tenantID string) bool {
	if !s.restricted {
		return true
	}
	return s.tenantID != "" && s.tenantID == tenantID
}

// Filters returns the extra predicates every tenant-scoped read and delete
// must carry.
func (s Scope) Filters() []store.Filter {
	if !s.restricted {
		return nil
	}
	return []store.Filter{store.Eq(store.ColumnCustomerID, s.tenantID)}
}

func (s Scope) String() string {
	if !s.restricted {
		return "unrestricted"
	}
	return fmt.Sprintf("restricted(%s)", s.tenantID)
}

// Principal is the authenticated caller.
type Principal struct {
	UserID     string
	Role       models.Role
	CustomerID string
}

// Scope derives the row visibility of the principal from its role. Customer
// users only see their own customer's rows; every other role is unrestricted.
func (p Principal) Scope() Scope {
	if p.Role == models.RoleCustomer {
		return RestrictedTo(p.CustomerID)
	}
	return Unrestricted()
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}
