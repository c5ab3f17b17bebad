package db

import (
	"strings"

	"github.com/google/uuid"
)

// Query is a SQL predicate and ordering over one entity table. Column names
// are those of the entity's own table.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
}

// Where starts a query with a predicate
func Where(pred string, args ...any) Query {
	return Query{Where: pred, Args: args}
}

// All matches every row
func All() Query {
	return Query{}
}

// And narrows the query with another predicate
func (q Query) And(pred string, args ...any) Query {
	if q.Where == "" {
		q.Where = pred
	} else {
		q.Where = "(" + q.Where + ") AND (" + pred + ")"
	}
	q.Args = append(append([]any(nil), q.Args...), args...)
	return q
}

// Order sets the ORDER BY clause
func (q Query) Order(by string) Query {
	q.OrderBy = by
	return q
}

// In builds "column IN (?,?,...)" for ids
func In(column string, ids []uuid.UUID) (string, []any) {
	if len(ids) == 0 {
		return "0", nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id.String()
	}
	return column + " IN " + generateParameters(len(ids)), args
}

func (q Query) sql(base string) string {
	var sb strings.Builder
	sb.WriteString(base)
	if q.Where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(q.Where)
	}
	if q.OrderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(q.OrderBy)
	}
	return sb.String()
}

func generateParameters(n int) string {
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(?")
	for range n - 1 {
		sb.WriteString(",?")
	}

	sb.WriteString(")")
	return sb.String()
}
