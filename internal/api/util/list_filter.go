package util

import "fmt"

// ListFilter is the parsed form of the query, order, page and per_page
// parameters accepted by list endpoints.
type ListFilter struct {
	Filters []QueryFilter
	Order   []OrderClause
	Page    int
	PerPage int
}

// Offset is the number of rows before the requested page.
func (f ListFilter) Offset() int {
	if f.Page <= 1 || f.PerPage <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}

// ListSchema names the columns a list endpoint can be filtered and sorted on.
type ListSchema struct {
	QueryFields []string
	OrderFields []string
}

// Parse builds a ListFilter from raw parameters, rejecting operators,
// directions and fields the schema does not allow.
func (s ListSchema) Parse(query, order string, page, perPage int) (ListFilter, error) {
	if page < 1 {
		return ListFilter{}, fmt.Errorf("page must be a positive integer")
	}
	if perPage < 1 {
		return ListFilter{}, fmt.Errorf("per_page must be a positive integer")
	}

	filters, err := ParseQueryString(query)
	if err != nil {
		return ListFilter{}, err
	}
	if err := ValidateFilterFields(filters, s.QueryFields); err != nil {
		return ListFilter{}, err
	}

	orders, err := ParseOrderString(order)
	if err != nil {
		return ListFilter{}, err
	}
	if err := ValidateOrderFields(orders, s.OrderFields); err != nil {
		return ListFilter{}, err
	}

	return ListFilter{Filters: filters, Order: orders, Page: page, PerPage: perPage}, nil
}
