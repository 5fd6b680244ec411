package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQuery_BasicSelect(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("listings"))
	assert.Equal(t, `SELECT * FROM "listings"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_WithQualifiedColumns(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions("bookings",
		WithColumns("bookings.id", "listings.title"),
	))
	assert.Equal(t, `SELECT "bookings"."id", "listings"."title" FROM "bookings"`, query)
}

func TestBuildListQuery_CountOnly(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("listings",
		WithCountOnly(),
		WithCondition(WhereCond("status", Equal, "approved")),
		WithOrderBy("created_at", "DESC"),
		WithLimit(10),
	))
	assert.Equal(t, `SELECT COUNT(*) FROM "listings" WHERE "status" = $1`, query)
	assert.Equal(t, []any{"approved"}, args)
}

func TestBuildListQuery_WhereIn(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("bookings",
		WithCondition(WhereCond("status", In, []string{"requested", "confirmed"})),
	))
	assert.Equal(t, `SELECT * FROM "bookings" WHERE "status" IN ($1, $2)`, query)
	assert.Equal(t, []any{"requested", "confirmed"}, args)

	query, args = BuildListQuery(NewListQueryOptions("bookings",
		WithCondition(WhereCond("status", In, []string{})),
	))
	assert.Equal(t, `SELECT * FROM "bookings"`, query)
	assert.Empty(t, args)
}

func TestBuildListQuery_WhereCustom(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("listings",
		WithCondition(WhereCond("status", Equal, "approved")),
		WithCondition(WhereRawCond("lower(city) = lower($1) OR lower(address) LIKE '%' || lower($1) || '%'", "Jeju")),
		WithCondition(WhereCond("max_guests", GreaterThanOrEqual, 4)),
	))
	assert.Equal(t,
		`SELECT * FROM "listings" WHERE "status" = $1 AND (lower(city) = lower($2) OR lower(address) LIKE '%' || lower($2) || '%') AND "max_guests" >= $3`,
		query)
	assert.Equal(t, []any{"approved", "Jeju", 4}, args)
}

func TestBuildListQuery_WhereCustom_OutOfRangePlaceholder(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("listings",
		WithCondition(WhereRawCond("a = $1 AND b = $2", "x")),
	))
	assert.Equal(t, `SELECT * FROM "listings" WHERE (a = $1 AND b = $2)`, query)
	assert.Equal(t, []any{"x"}, args)
}

func TestBuildListQuery_OrderAndPaging(t *testing.T) {
	query, args := BuildListQuery(NewListQueryOptions("listings",
		WithCondition(WhereCond("host_id", Equal, "h1")),
		WithOrderBy("created_at", "desc"),
		WithOrderBy("id", "sideways"),
		WithLimit(20),
		WithOffset(0),
	))
	assert.Equal(t,
		`SELECT * FROM "listings" WHERE "host_id" = $1 ORDER BY "created_at" DESC, "id" LIMIT $2 OFFSET $3`,
		query)
	assert.Equal(t, []any{"h1", 20, 0}, args)
}

func TestBuildListQuery_IdentifierInjection(t *testing.T) {
	query, _ := BuildListQuery(NewListQueryOptions(`listings"; DROP TABLE users; --`,
		WithOrderBy(`created_at"; --`, "DESC"),
	))
	assert.Equal(t,
		`SELECT * FROM "listings""; DROP TABLE users; --" ORDER BY "created_at""; --" DESC`,
		query)
}

func TestWhereCond_CustomPanics(t *testing.T) {
	assert.Panics(t, func() { WhereCond("x", Custom, 1) })
}

func TestBuildUpdateQuery(t *testing.T) {
	q := UpdateQuery{Table: "listings", KeyColumn: "id", KeyValue: "l1", Returning: []string{"id", "status"}}
	q.SetIf(true, "title", "Hanok stay")
	q.SetIf(false, "city", "Seoul")
	q.SetIf(true, "status", "pending")

	query, args := BuildUpdateQuery(q)
	assert.Equal(t,
		`UPDATE "listings" SET "title" = $1, "status" = $2 WHERE "id" = $3 RETURNING "id", "status"`,
		query)
	assert.Equal(t, []any{"Hanok stay", "pending", "l1"}, args)

	empty, emptyArgs := BuildUpdateQuery(UpdateQuery{Table: "listings", KeyColumn: "id"})
	assert.Empty(t, empty)
	assert.Nil(t, emptyArgs)
}
