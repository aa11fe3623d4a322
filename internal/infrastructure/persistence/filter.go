package persistence

import (
	"fmt"

	"github.com/sabstore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// allowedOrderColumns whitelists sortable columns to keep user input out of
// the ORDER BY clause.
var allowedOrderColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"status":     true,
}

// applyFilter applies pagination and ordering from the shared filter
func applyFilter(db *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orderBy := filter.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	dir := "desc"
	if filter.OrderDir == "asc" {
		dir = "asc"
	}

	return db.
		Order(fmt.Sprintf("%s %s", orderBy, dir)).
		Offset((page - 1) * pageSize).
		Limit(pageSize)
}
