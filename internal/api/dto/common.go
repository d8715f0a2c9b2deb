package dto

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// PaginationInfo describes the page returned by a list endpoint
type PaginationInfo struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

// NewPaginationInfo returns pagination for a page of a larger result set.
// perPage 0 means the whole set was returned.
func NewPaginationInfo(total, page, perPage int) PaginationInfo {
	if perPage <= 0 {
		return PaginationInfo{Total: total, Page: 1, PerPage: total, TotalPages: 1}
	}
	return PaginationInfo{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: (total + perPage - 1) / perPage,
	}
}
