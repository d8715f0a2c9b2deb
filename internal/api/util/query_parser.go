package util

import (
	"fmt"
	"slices"
	"strings"
)

// QueryOperator represents a filter operator
type QueryOperator string

const (
	OpEq        QueryOperator = "eq"
	OpNe        QueryOperator = "ne"
	OpGt        QueryOperator = "gt"
	OpGte       QueryOperator = "gte"
	OpLt        QueryOperator = "lt"
	OpLte       QueryOperator = "lte"
	OpIn        QueryOperator = "in"
	OpNin       QueryOperator = "nin"
	OpIsNull    QueryOperator = "isnull"
	OpIsNotNull QueryOperator = "isnotnull"
)

func (op QueryOperator) isValid() bool {
	switch op {
	case OpEq, OpNe, OpGt, OpGte, OpLt, OpLte, OpIn, OpNin, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

func (op QueryOperator) isList() bool {
	return op == OpIn || op == OpNin
}

func (op QueryOperator) isNullCheck() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// QueryFilter is a single condition. Value is a string, a []string for
// in/nin, or nil for null checks.
type QueryFilter struct {
	Field    string
	Operator QueryOperator
	Value    any
}

type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

type OrderClause struct {
	Field     string
	Direction OrderDirection
}

// ParseQueryString parses comma separated conditions:
//
//	field|value              equality
//	field|isnull             null check (also isnotnull)
//	field|op|value           explicit operator
//	field|in|a,b,c           list operators take the following comma separated items
func ParseQueryString(queryStr string) ([]QueryFilter, error) {
	var filters []QueryFilter

	for _, segment := range splitList(queryStr) {
		if !strings.Contains(segment, "|") {
			// continuation of an in/nin value list
			if n := len(filters); n > 0 && filters[n-1].Operator.isList() {
				filters[n-1].Value = append(filters[n-1].Value.([]string), segment)
				continue
			}
			return nil, fmt.Errorf("invalid query format: %s (expected field|value or field|operator|value)", segment)
		}

		filter, err := parseCondition(segment)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}

	return filters, nil
}

func parseCondition(segment string) (QueryFilter, error) {
	parts := strings.Split(segment, "|")
	field := strings.TrimSpace(parts[0])
	if field == "" {
		return QueryFilter{}, fmt.Errorf("invalid query format: %s (missing field)", segment)
	}

	switch len(parts) {
	case 2:
		if op := QueryOperator(strings.ToLower(parts[1])); op.isNullCheck() {
			return QueryFilter{Field: field, Operator: op}, nil
		}
		return QueryFilter{Field: field, Operator: OpEq, Value: parts[1]}, nil

	case 3:
		op := QueryOperator(strings.ToLower(parts[1]))
		if !op.isValid() {
			return QueryFilter{}, fmt.Errorf("invalid operator: %s", parts[1])
		}
		switch {
		case op.isList():
			return QueryFilter{Field: field, Operator: op, Value: []string{parts[2]}}, nil
		case op.isNullCheck():
			return QueryFilter{Field: field, Operator: op}, nil
		default:
			return QueryFilter{Field: field, Operator: op, Value: parts[2]}, nil
		}
	}

	return QueryFilter{}, fmt.Errorf("invalid query format: %s (expected field|value or field|operator|value)", segment)
}

// ParseOrderString parses comma separated field|asc or field|desc clauses.
func ParseOrderString(orderStr string) ([]OrderClause, error) {
	var orders []OrderClause

	for _, segment := range splitList(orderStr) {
		field, dir, ok := strings.Cut(segment, "|")
		if !ok || strings.Contains(dir, "|") {
			return nil, fmt.Errorf("invalid order format: %s (expected field|direction)", segment)
		}

		direction := OrderDirection(strings.ToLower(dir))
		if direction != OrderAsc && direction != OrderDesc {
			return nil, fmt.Errorf("invalid order direction: %s (expected asc or desc)", dir)
		}
		orders = append(orders, OrderClause{Field: strings.TrimSpace(field), Direction: direction})
	}

	return orders, nil
}

// ValidateFilterFields rejects filters on fields outside allowedFields.
func ValidateFilterFields(filters []QueryFilter, allowedFields []string) error {
	for _, filter := range filters {
		if !slices.Contains(allowedFields, filter.Field) {
			return fmt.Errorf("invalid query field: %s (valid fields: %s)", filter.Field, strings.Join(allowedFields, ", "))
		}
	}
	return nil
}

// ValidateOrderFields rejects ordering on fields outside allowedFields.
func ValidateOrderFields(orders []OrderClause, allowedFields []string) error {
	for _, order := range orders {
		if !slices.Contains(allowedFields, order.Field) {
			return fmt.Errorf("invalid order field: %s (valid fields: %s)", order.Field, strings.Join(allowedFields, ", "))
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
