package pkg

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPage = 1
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// validFieldName matches only alphanumeric characters and underscores.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ListParams holds the paging query parameters of a listing request.
// Limit is 0 when the client did not ask for a size, so the content
// store's own default applies.
type ListParams struct {
	Page  int
	Limit int
}

// ParseListParams extracts page and limit from the query string. Invalid
// values fall back to defaults and limit is clamped to MaxLimit.
func ParseListParams(c *gin.Context) ListParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	if limit < 1 {
		limit = 0
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return ListParams{Page: page, Limit: limit}
}

// QueryLimit reads a bare "limit" parameter for non-paged lists, falling
// back to def and clamping to MaxLimit.
func QueryLimit(c *gin.Context, def int) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 1 {
		return def
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = defaultPage
		}
		offset := (page - 1) * limit
		return db.Offset(offset).Limit(limit)
	}
}

// Sort returns a GORM scope that applies ORDER BY for a "field:direction"
// expression. Only field names present in the allowed list are accepted;
// others are silently ignored. Field names are validated against a strict
// pattern to prevent SQL injection.
func Sort(sort string, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		parts := strings.SplitN(sort, ":", 2)
		if len(parts) != 2 {
			return db
		}

		field := strings.TrimSpace(parts[0])
		direction := strings.TrimSpace(strings.ToLower(parts[1]))

		if direction != "asc" && direction != "desc" {
			return db
		}

		if !validFieldName.MatchString(field) {
			return db
		}

		if !isAllowed(field, allowed) {
			return db
		}

		return db.Order(field + " " + direction)
	}
}

// Filter returns a GORM scope that applies exact-match WHERE conditions.
// Only keys present in the allowed list are applied and empty values are
// skipped, so an unset filter means "any".
func Filter(filter map[string]string, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range filter {
			if value == "" {
				continue
			}
			if !validFieldName.MatchString(key) {
				continue
			}
			if !isAllowed(key, allowed) {
				continue
			}
			db = db.Where(key+" = ?", value)
		}
		return db
	}
}

// isAllowed checks if a field name is in the allowed list.
func isAllowed(field string, allowed []string) bool {
	return slices.Contains(allowed, field)
}
