package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BasicSelect(t *testing.T) {
	stmt := From("readings").
		Select("reading_id", "read_at", "weight").
		Build()

	assert.Equal(t, "SELECT reading_id, read_at, weight FROM readings", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_SelectAllColumns(t *testing.T) {
	stmt := From("readings").Build()

	assert.Equal(t, "SELECT * FROM readings", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_WhereConditions(t *testing.T) {
	stmt := From("readings").
		Select("reading_id").
		Where(Eq("consumed", false)).
		Where(Gte("read_at", "2026-08-28")).
		Build()

	assert.Equal(t, "SELECT reading_id FROM readings WHERE consumed = @p0 AND read_at >= @p1", stmt.SQL)
	assert.Equal(t, map[string]interface{}{
		"p0": false,
		"p1": "2026-08-28",
	}, stmt.Params)
}

func TestBuilder_InCondition(t *testing.T) {
	ids := []string{"r1", "r2"}
	stmt := From("readings").
		Where(In("reading_id", ids)).
		Build()

	assert.Equal(t, "SELECT * FROM readings WHERE reading_id IN UNNEST(@p0)", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"p0": ids}, stmt.Params)
}

func TestBuilder_NullConditions(t *testing.T) {
	stmt := From("readings").
		Where(IsNull("product_id")).
		Where(IsNotNull("sale_id")).
		Build()

	assert.Equal(t, "SELECT * FROM readings WHERE product_id IS NULL AND sale_id IS NOT NULL", stmt.SQL)
	assert.Empty(t, stmt.Params)
}

func TestBuilder_OrderByAndLimit(t *testing.T) {
	stmt := From("readings").
		OrderBy("read_at", Desc).
		Limit(50).
		Build()

	assert.Equal(t, "SELECT * FROM readings ORDER BY read_at DESC LIMIT @limit", stmt.SQL)
	assert.Equal(t, map[string]interface{}{"limit": int64(50)}, stmt.Params)
}

func TestBuilder_Count(t *testing.T) {
	stmt := From("tickets").
		Where(Gte("issued_at", "2026-08-28")).
		OrderBy("issued_at", Desc).
		Limit(10).
		Count().
		Build()

	assert.Equal(t, "SELECT COUNT(*) FROM tickets WHERE issued_at >= @p0", stmt.SQL)
}

func TestBuilder_Immutability(t *testing.T) {
	base := From("sales").Select("sale_id")
	withWhere := base.Where(Eq("status", "completada"))

	require.NotEqual(t, base.Build().SQL, withWhere.Build().SQL)
	assert.Equal(t, "SELECT sale_id FROM sales", base.Build().SQL, "base builder unchanged")
}
