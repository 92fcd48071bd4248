package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/facade-admin/access"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = gorm.ErrRecordNotFound

// IsNotFound reports whether err means the row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// scoped adds the tenant predicate of scope to db
func scoped(db *gorm.DB, scope access.Scope) *gorm.DB {
	if !scope.IsRestricted() {
		return db
	}
	return db.Where("customer_id = ?", scope.TenantID())
}

// likePattern escapes LIKE wildcards in term and wraps it in %
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

// orderBy returns "column direction" if column is whitelisted, else the fallback
func orderBy(column, direction string, allowed map[string]bool, fallback string) string {
	if !allowed[column] {
		column = fallback
	}
	if direction != "asc" {
		direction = "desc"
	}
	return column + " " + direction
}
