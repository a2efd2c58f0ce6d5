// Package querybuilder assembles schema-qualified SELECT statements with
// "?" placeholders. Callers rebind the output for their driver before
// executing it.
package querybuilder

import (
	"fmt"
	"strings"
)

type condType int

const (
	condTypeAnd condType = iota + 1
	condTypeOr
)

func (c condType) String() string {
	switch c {
	case condTypeAnd:
		return "AND"
	case condTypeOr:
		return "OR"
	default:
		return ""
	}
}

type condition struct {
	condType condType
	clause   string
	args     []interface{}
}

type QueryBuilder interface {
	Select(cols ...string) QueryBuilder
	From(table string) QueryBuilder
	Where(clause string, args ...interface{}) QueryBuilder
	And(clause string, args ...interface{}) QueryBuilder
	Or(clause string, args ...interface{}) QueryBuilder
	OrderBy(col string, asc bool) QueryBuilder
	Limit(n int) QueryBuilder
	Build() (string, []interface{})
}

type queryBuilder struct {
	schema     string
	table      string
	cols       []string
	conditions []condition
	orderBy    []string
	limit      int
}

// NewQueryBuilder creates a builder scoped to one schema.
func NewQueryBuilder(schema string) QueryBuilder {
	return &queryBuilder{schema: schema}
}

func (q *queryBuilder) Select(cols ...string) QueryBuilder {
	q.cols = append(q.cols, cols...)
	return q
}

func (q *queryBuilder) From(table string) QueryBuilder {
	q.table = table
	return q
}

func (q *queryBuilder) Where(clause string, args ...interface{}) QueryBuilder {
	return q.And(clause, args...)
}

func (q *queryBuilder) And(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{condType: condTypeAnd, clause: clause, args: args})
	return q
}

func (q *queryBuilder) Or(clause string, args ...interface{}) QueryBuilder {
	q.conditions = append(q.conditions, condition{condType: condTypeOr, clause: clause, args: args})
	return q
}

func (q *queryBuilder) OrderBy(col string, asc bool) QueryBuilder {
	direction := "ASC"
	if !asc {
		direction = "DESC"
	}
	q.orderBy = append(q.orderBy, fmt.Sprintf("%s %s", col, direction))
	return q
}

func (q *queryBuilder) Limit(n int) QueryBuilder {
	q.limit = n
	return q
}

func (q *queryBuilder) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM %s.%s", strings.Join(q.cols, ", "), q.schema, q.table)

	var args []interface{}
	if len(q.conditions) > 0 {
		parts := make([]string, 0, len(q.conditions)*2)
		for i, cond := range q.conditions {
			if i > 0 {
				parts = append(parts, cond.condType.String())
			}
			parts = append(parts, cond.clause)
			args = append(args, cond.args...)
		}
		query += " WHERE " + strings.Join(parts, " ")
	}

	if len(q.orderBy) > 0 {
		query += " ORDER BY " + strings.Join(q.orderBy, ", ")
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, args
}
