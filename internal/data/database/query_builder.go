// Package database builds parameterized Postgres statements with quoted identifiers.
package database

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ConditionType is the comparison a Condition applies.
type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	ILike              ConditionType = "ILIKE"
	In                 ConditionType = "IN"
	Custom             ConditionType = "CUSTOM"

	unset = -1
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Condition is one AND-ed predicate of a WHERE clause.
type Condition struct {
	Field    string
	Type     ConditionType
	Value    any
	rawQuery string
}

// WhereCond builds a field comparison. Use WhereRawCond for expressions.
func WhereCond(field string, condType ConditionType, value any) Condition {
	if condType == Custom {
		//nolint:forbidigo // custom conditions must provide raw SQL via WhereRawCond.
		panic("Use WhereRawCond for Custom type")
	}
	return Condition{Field: field, Type: condType, Value: value}
}

// WhereRawCond builds a predicate from raw SQL numbered from $1; placeholders are renumbered on build.
// The SQL text itself is trusted and must not contain user input.
func WhereRawCond(rawQuery string, params ...any) Condition {
	return Condition{Type: Custom, rawQuery: rawQuery, Value: params}
}

// Order is one ORDER BY term.
type Order struct {
	Column string
	Desc   bool
}

// ListQueryOptions describes a SELECT over a single table.
type ListQueryOptions struct {
	Table      string
	Columns    []string
	CountOnly  bool
	Conditions []Condition
	Orders     []Order
	Limit      int
	Offset     int
}

// ListQueryOption mutates ListQueryOptions.
type ListQueryOption func(*ListQueryOptions)

// NewListQueryOptions returns options for table with opts applied.
func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{Table: table, Limit: unset, Offset: unset}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) { o.Columns = cols }
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) { o.Conditions = append(o.Conditions, cond) }
}

// WithOrderBy appends an ORDER BY term. Any direction other than DESC sorts ascending.
func WithOrderBy(column, direction string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Orders = append(o.Orders, Order{Column: column, Desc: strings.EqualFold(direction, "DESC")})
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithOffset sets the offset. Accepts 0.
func WithOffset(offset int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if offset >= 0 {
			o.Offset = offset
		}
	}
}

// WithCountOnly selects COUNT(*) and drops ordering and paging.
func WithCountOnly() ListQueryOption {
	return func(o *ListQueryOptions) { o.CountOnly = true }
}

// ident quotes a possibly qualified identifier such as "table.column".
func ident(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}

// statement accumulates SQL text and numbered arguments.
type statement struct {
	sql  strings.Builder
	args []any
}

func (s *statement) bind(v any) string {
	s.args = append(s.args, v)
	return "$" + strconv.Itoa(len(s.args))
}

// BuildListQuery renders options as SQL plus arguments.
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}

	var st statement
	switch {
	case options.CountOnly:
		st.sql.WriteString("SELECT COUNT(*)")
	case len(options.Columns) == 0:
		st.sql.WriteString("SELECT *")
	default:
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = ident(c)
		}
		st.sql.WriteString("SELECT " + strings.Join(cols, ", "))
	}
	st.sql.WriteString(" FROM " + ident(options.Table))
	st.writeWhere(options.Conditions)

	if options.CountOnly {
		return st.sql.String(), st.args
	}

	if len(options.Orders) > 0 {
		terms := make([]string, len(options.Orders))
		for i, o := range options.Orders {
			terms[i] = ident(o.Column)
			if o.Desc {
				terms[i] += " DESC"
			}
		}
		st.sql.WriteString(" ORDER BY " + strings.Join(terms, ", "))
	}
	if options.Limit != unset {
		st.sql.WriteString(" LIMIT " + st.bind(options.Limit))
	}
	if options.Offset != unset {
		st.sql.WriteString(" OFFSET " + st.bind(options.Offset))
	}
	return st.sql.String(), st.args
}

func (s *statement) writeWhere(conds []Condition) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if p := s.condition(c); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) > 0 {
		s.sql.WriteString(" WHERE " + strings.Join(parts, " AND "))
	}
}

func (s *statement) condition(c Condition) string {
	switch c.Type {
	case Custom:
		return s.custom(c)
	case In:
		if c.Field == "" {
			return ""
		}
		rv := reflect.ValueOf(c.Value)
		if rv.Kind() != reflect.Slice || rv.Len() == 0 {
			return ""
		}
		ph := make([]string, rv.Len())
		for i := range rv.Len() {
			ph[i] = s.bind(rv.Index(i).Interface())
		}
		return fmt.Sprintf("%s IN (%s)", ident(c.Field), strings.Join(ph, ", "))
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual, ILike:
		if c.Field == "" {
			return ""
		}
		return fmt.Sprintf("%s %s %s", ident(c.Field), c.Type, s.bind(c.Value))
	default:
		return ""
	}
}

// custom renumbers $n placeholders of a raw condition and parenthesizes it; a repeated $n binds once.
func (s *statement) custom(c Condition) string {
	if c.rawQuery == "" {
		return ""
	}
	params, _ := c.Value.([]any)
	bound := make(map[int]string)
	return "(" + placeholderRe.ReplaceAllStringFunc(c.rawQuery, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(params) {
			return m
		}
		if ph, ok := bound[n]; ok {
			return ph
		}
		bound[n] = s.bind(params[n-1])
		return bound[n]
	}) + ")"
}

// Assignment is one SET column = value pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
}

// UpdateQuery describes an UPDATE of rows matching a single key column.
type UpdateQuery struct {
	Table     string
	Set       []Assignment
	KeyColumn string
	KeyValue  any
	Returning []string
}

// SetIf appends an assignment when cond holds.
func (q *UpdateQuery) SetIf(cond bool, column string, value any) {
	if cond {
		q.Set = append(q.Set, Assignment{Column: column, Value: value})
	}
}

// BuildUpdateQuery renders q as SQL plus arguments. It returns an empty query when nothing is set.
func BuildUpdateQuery(q UpdateQuery) (string, []any) {
	if len(q.Set) == 0 || q.KeyColumn == "" {
		return "", nil
	}
	var st statement
	sets := make([]string, len(q.Set))
	for i, a := range q.Set {
		sets[i] = ident(a.Column) + " = " + st.bind(a.Value)
	}
	st.sql.WriteString("UPDATE " + ident(q.Table) + " SET " + strings.Join(sets, ", "))
	st.sql.WriteString(" WHERE " + ident(q.KeyColumn) + " = " + st.bind(q.KeyValue))
	if len(q.Returning) > 0 {
		cols := make([]string, len(q.Returning))
		for i, c := range q.Returning {
			cols[i] = ident(c)
		}
		st.sql.WriteString(" RETURNING " + strings.Join(cols, ", "))
	}
	return st.sql.String(), st.args
}
