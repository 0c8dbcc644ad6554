package pagination

// Meta describes the rendered window in page terms.
type Meta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	TotalItems  int  `json:"total_items"`
	HasPrevious bool `json:"has_previous"`
	HasNext     bool `json:"has_next"`
}

// NewMeta builds page metadata for a window starting at item start that
// holds pageSize items out of totalCount.
func NewMeta(start, pageSize, totalCount int) Meta {
	if pageSize <= 0 {
		return Meta{CurrentPage: 1, TotalItems: totalCount}
	}

	currentPage := start/pageSize + 1
	totalPages := (totalCount + pageSize - 1) / pageSize

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  totalCount,
		HasPrevious: start > 0,
		HasNext:     start+pageSize < totalCount,
	}
}
