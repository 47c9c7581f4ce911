package models

// Pagination describes the slice of a record set a fragment renders.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes page bounds for the given totals.
func NewPagination(page, perPage, total int) *Pagination {
	if perPage <= 0 {
		perPage = 10
	}
	if page < 1 {
		page = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return &Pagination{Page: page, PerPage: perPage, TotalCount: total, TotalPages: totalPages}
}

// Bounds returns the half-open [from, to) slice indexes for the page.
func (p *Pagination) Bounds() (int, int) {
	from := (p.Page - 1) * p.PerPage
	if from > p.TotalCount {
		from = p.TotalCount
	}
	to := from + p.PerPage
	if to > p.TotalCount {
		to = p.TotalCount
	}
	return from, to
}
