package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sabstore/backend/internal/domain/shared"
	"github.com/sabstore/backend/internal/interfaces/http/dto"
)

// buildFilter converts the common list parameters plus the named query
// filters into a repository filter. Absent query parameters are omitted so
// repositories only see filters the caller actually set.
func buildFilter(c *gin.Context, req dto.ListRequest, filterKeys ...string) shared.Filter {
	req.Normalize()
	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	for _, key := range filterKeys {
		if value := c.Query(key); value != "" {
			filter.Filters[key] = value
		}
	}
	return filter
}
