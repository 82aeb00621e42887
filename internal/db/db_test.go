package db

import (
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/paksmart/storefront/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatements(t *testing.T) {
	script := `-- header
CREATE TABLE a (id INT);

  -- inline comment line
CREATE TABLE b (
    id INT
);
`
	got := splitSQLStatements(script)
	require.Len(t, got, 2)
	assert.Equal(t, "CREATE TABLE a (id INT)", got[0])
	assert.Contains(t, got[1], "CREATE TABLE b")
}

func TestEmbeddedSchemaHasAllTables(t *testing.T) {
	stmts := splitSQLStatements(schemaSQL)
	require.Len(t, stmts, 3)
	assert.Contains(t, stmts[0], "users")
	assert.Contains(t, stmts[1], "products")
	assert.Contains(t, stmts[2], "orders")
}

func TestBuildProductListQuery_NoFilter(t *testing.T) {
	query, args := buildProductListQuery(models.ProductFilter{Category: models.CategoryAll})
	assert.Equal(t, "SELECT "+productColumns+" FROM products ORDER BY created_at DESC", query)
	assert.Empty(t, args)
}

func TestBuildProductListQuery_CategoryAndSearch(t *testing.T) {
	query, args := buildProductListQuery(models.ProductFilter{
		Category: models.CategoryHandsfree,
		Search:   "  EarBuds ",
	})

	assert.Contains(t, query, "WHERE category = ? AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)")
	assert.Equal(t, []any{"handsfree", "%earbuds%", "%earbuds%", "%earbuds%"}, args)
}

func TestBuildProductListQuery_FeaturedWithLimit(t *testing.T) {
	query, args := buildProductListQuery(models.ProductFilter{Featured: true, Limit: 8})
	assert.Contains(t, query, "WHERE featured = TRUE ORDER BY created_at DESC LIMIT ?")
	assert.Equal(t, []any{8}, args)
}

func TestBuildProductListQuery_EscapesWildcards(t *testing.T) {
	_, args := buildProductListQuery(models.ProductFilter{Search: "100%_fast"})
	assert.Equal(t, `%100\%\_fast%`, args[0])
}

func TestIsDuplicate(t *testing.T) {
	assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, isDuplicate(&mysql.MySQLError{Number: 1146}))
	assert.False(t, isDuplicate(nil))
}
