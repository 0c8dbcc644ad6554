package pagination

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults and sort orders.
const (
	DefaultHeight    = 20
	DefaultSortField = ""
	DefaultSortOrder = "asc"
	SortOrderAsc     = "asc"
	SortOrderDesc    = "desc"
)

// Validation errors.
var (
	ErrInvalidSortOrder  = errors.New("sort order must be 'asc' or 'desc'")
	ErrInvalidSortFormat = errors.New("invalid sort format: use 'field' or 'field:order' (e.g., 'email:desc')")
	ErrEmptySortField    = errors.New("sort field cannot be empty")
)

// Params holds the render command's window flags.
type Params struct {
	// Offset is the scroll offset in rows (offset-based mode).
	Offset int
	// Height is the viewport height in rows (offset-based mode).
	Height int
	// Page is the 1-based page number (page-based mode).
	Page int
	// PageSize is the number of items per page (page-based mode).
	PageSize int
	// Sort is a "field" or "field:order" expression.
	Sort string
}

// NewParams returns Params with default values.
func NewParams() *Params {
	return &Params{Height: DefaultHeight}
}

// Validate checks that the parameters are consistent.
func (p Params) Validate() error {
	if p.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	if p.Height < 0 {
		return errors.New("height cannot be negative")
	}
	if p.Page < 0 {
		return errors.New("page cannot be negative")
	}
	if p.PageSize < 0 {
		return errors.New("page-size cannot be negative")
	}

	if p.Page > 0 && p.Offset > 0 {
		return errors.New("page and offset parameters are mutually exclusive")
	}
	if p.Page == 0 && p.PageSize > 0 {
		return errors.New("page must be specified when using page-size: page must be >= 1")
	}
	if p.PageSize == 0 && p.Page > 0 {
		return errors.New("page-size must be specified when using page: page-size must be > 0")
	}

	if _, _, err := ParseSort(p.Sort); err != nil {
		return err
	}
	return nil
}

// IsPageBased returns true if page-based pagination is active.
func (p Params) IsPageBased() bool {
	return p.Page > 0
}

// Viewport returns the scroll offset and viewport height, in rows, for
// items that are itemHeight rows tall.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func (p Params) Viewport(itemHeight int) (offset, height int) {
	if p.IsPageBased() {
		return (p.Page - 1) * p.PageSize * itemHeight, p.PageSize * itemHeight
	}
	return p.Offset, p.Height
}

// PageRange returns the half-open record range [start, end) of the selected
// page over total records. Pages past the end are empty.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func (p Params) PageRange(total int) (start, end int) {
	if !p.IsPageBased() {
		return 0, 0
	}
	start = min((p.Page-1)*p.PageSize, max(total, 0))
	return start, min(start+p.PageSize, max(total, 0))
}

// sortPartsMax is the maximum number of parts in a sort string (field:order).
const sortPartsMax = 2

// ParseSort parses a sort string in the format "field" or "field:order".
// An empty string means no sorting.
//
//nolint:nonamedreturns // Named returns improve readability for this multi-value function.
func ParseSort(sortStr string) (field, order string, err error) {
	if sortStr == "" {
		return DefaultSortField, DefaultSortOrder, nil
	}

	parts := strings.Split(sortStr, ":")
	switch len(parts) {
	case 1:
		field = strings.TrimSpace(parts[0])
		order = DefaultSortOrder
	case sortPartsMax:
		field = strings.TrimSpace(parts[0])
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	default:
		return "", "", fmt.Errorf("%w: %q", ErrInvalidSortFormat, sortStr)
	}

	if field == "" {
		return "", "", ErrEmptySortField
	}

	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("%w: got %q", ErrInvalidSortOrder, order)
	}

	return field, order, nil
}
