package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) *Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(DefaultLimit)))
	return NewParams(page, limit)
}

// NewParams normalizes a page/limit pair
func NewParams(page, limit int) *Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: Offset(page, limit),
	}
}

// Offset returns the index of the first item on a 1-based page
func Offset(page, size int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * size
}

// TotalPages is ceil(count/size), never less than 1
func TotalPages(count, size int) int {
	if size < 1 {
		size = 1
	}
	pages := count / size
	if count%size > 0 {
		pages++
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage keeps index within [1, TotalPages(count, size)]
func ClampPage(index, count, size int) int {
	if index < 1 {
		return 1
	}
	if last := TotalPages(count, size); index > last {
		return last
	}
	return index
}

// Paginate returns the window [(index-1)*size, index*size) of items.
// The window is clamped to the slice bounds; an index past the last page
// yields an empty slice.
func Paginate[T any](items []T, index, size int) []T {
	if size < 1 || index < 1 {
		return []T{}
	}
	start := (index - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := TotalPages(int(total), params.Limit)

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
