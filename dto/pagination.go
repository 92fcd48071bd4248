package dto

// DefaultPageSize is used when a list request does not specify one
const DefaultPageSize = 10

// MaxPageSize caps the page size of list requests
const MaxPageSize = 100

// Pagination holds normalised page parameters
type Pagination struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and bounds
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages calculates the number of pages for totalCount rows
func (p Pagination) TotalPages(totalCount int64) int {
	if p.PageSize <= 0 {
		return 0
	}
	totalPages := int(totalCount) / p.PageSize
	if int(totalCount)%p.PageSize > 0 {
		totalPages++
	}
	return totalPages
}
