package sqlite

import (
	"fmt"
	"strings"
	"time"

	"github.com/martijn/clustercalm/internal/api/util"
)

// datetimeFields lists the columns holding timestamps that need normalization
var datetimeFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
}

func isDatetimeField(field string) bool {
	return datetimeFields[field]
}

// normalizeDateTime rewrites user supplied timestamps into the
// "2006-01-02 15:04:05" UTC form. modernc/sqlite stores time.Time values as
// "2006-01-02 15:04:05.999999999 +0000 UTC", and the space separated prefix
// compares correctly against that as a string.
func normalizeDateTime(value string) string {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC().Format("2006-01-02 15:04:05")
		}
	}

	return value
}

var comparisonSQL = map[util.QueryOperator]string{
	util.OpEq:  "=",
	util.OpNe:  "!=",
	util.OpGt:  ">",
	util.OpGte: ">=",
	util.OpLt:  "<",
	util.OpLte: "<=",
}

// BuildFilterClause renders one filter as a WHERE condition. An empty clause
// means the filter has nothing to match on and is skipped.
func BuildFilterClause(f util.QueryFilter) (string, []any) {
	switch f.Operator {
	case util.OpIsNull:
		return f.Field + " IS NULL", nil
	case util.OpIsNotNull:
		return f.Field + " IS NOT NULL", nil
	case util.OpIn, util.OpNin:
		values, _ := f.Value.([]string)
		if len(values) == 0 {
			return "", nil
		}
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v
		}
		keyword := "IN"
		if f.Operator == util.OpNin {
			keyword = "NOT IN"
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
		return fmt.Sprintf("%s %s (%s)", f.Field, keyword, placeholders), args
	}

	op, ok := comparisonSQL[f.Operator]
	if !ok {
		return "", nil
	}
	value := f.Value
	if s, isString := value.(string); isString && isDatetimeField(f.Field) {
		value = normalizeDateTime(s)
	}
	return fmt.Sprintf("%s %s ?", f.Field, op), []any{value}
}

// ApplyFilters ANDs every filter onto a query that already has a WHERE clause.
func ApplyFilters(query string, args []any, filters []util.QueryFilter) (string, []any) {
	for _, f := range filters {
		if clause, filterArgs := BuildFilterClause(f); clause != "" {
			query += " AND " + clause
			args = append(args, filterArgs...)
		}
	}
	return query, args
}

func ApplyOrdering(query string, orders []util.OrderClause, defaultOrder string) string {
	if len(orders) == 0 {
		return query + " ORDER BY " + defaultOrder
	}
	clauses := make([]string, len(orders))
	for i, o := range orders {
		clauses[i] = o.Field + " " + strings.ToUpper(string(o.Direction))
	}
	return query + " ORDER BY " + strings.Join(clauses, ", ")
}

// ApplyPagination appends LIMIT/OFFSET for the filter's page
func ApplyPagination(query string, args []any, filter util.ListFilter) (string, []any) {
	if filter.PerPage > 0 {
		query += " LIMIT ?"
		args = append(args, filter.PerPage)

		if offset := filter.Offset(); offset > 0 {
			query += " OFFSET ?"
			args = append(args, offset)
		}
	}
	return query, args
}
