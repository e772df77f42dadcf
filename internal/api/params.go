package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/pkg/config"
)

// pageParams are the validated pagination query parameters
type pageParams struct {
	Page  int
	Limit int
	Sort  db.Sort
}

// parsePageParams validates page, limit, and sort query parameters. Pages
// past the end are not an error here; the pagination layer answers them
// with an empty item set.
func parsePageParams(c *gin.Context, cfg *config.PaginationConfig) (*pageParams, *Error) {
	params := &pageParams{
		Page:  1,
		Limit: cfg.PageSize,
		Sort:  db.SortDesc,
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return nil, Validation("page must be a positive integer")
		}
		params.Page = page
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return nil, Validation("limit must be a positive integer")
		}
		if limit > cfg.MaxLimit {
			limit = cfg.MaxLimit
		}
		params.Limit = limit
	}

	sort, err := db.ParseSort(c.Query("sort"))
	if err != nil {
		return nil, Validation("sort must be one of asc, desc, rand")
	}
	params.Sort = sort

	return params, nil
}

// parseID validates a path id parameter
func parseID(c *gin.Context, name string) (int64, *Error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, Validation(name + " must be a positive integer")
	}
	return id, nil
}
