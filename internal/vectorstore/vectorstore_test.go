// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package vectorstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sqlmind/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(types.StoreConfig{Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestItemIDSuffixes(t *testing.T) {
	sqlID := itemID(types.KindSQL, "q\x00s")
	ddlID := itemID(types.KindDDL, "\x00CREATE TABLE t (id INTEGER)")
	docID := itemID(types.KindDocumentation, "\x00notes")

	assert.True(t, strings.HasSuffix(sqlID, "-sql"))
	assert.True(t, strings.HasSuffix(ddlID, "-ddl"))
	assert.True(t, strings.HasSuffix(docID, "-doc"))

	// Deterministic: same input, same ID.
	assert.Equal(t, sqlID, itemID(types.KindSQL, "q\x00s"))
}

func TestKindFromID(t *testing.T) {
	kind, ok := kindFromID("abc123def456-ddl")
	assert.True(t, ok)
	assert.Equal(t, types.KindDDL, kind)

	_, ok = kindFromID("abc123def456-nope")
	assert.False(t, ok)
}

func TestSQLiteStoreIndexAndRetrieve(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.IndexQuestionSQL(ctx, "How many customers signed up last month?",
		"SELECT count(*) FROM customers WHERE created_at >= date('now', '-1 month');")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id1, "-sql"))

	_, err = store.IndexQuestionSQL(ctx, "What is the total revenue by region?",
		"SELECT region, sum(amount) FROM orders GROUP BY region;")
	require.NoError(t, err)

	pairs, err := store.RelevantQuestionSQL(ctx, "customers signed up recently", 2)
	require.NoError(t, err)
	require.NotEmpty(t, pairs)
	assert.Contains(t, pairs[0].Question, "customers")
	assert.Contains(t, pairs[0].SQLQuery, "FROM customers")
}

func TestSQLiteStoreIndexIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id1, err := store.IndexDDL(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	id2, err := store.IndexDDL(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	items, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSQLiteStoreRejectsEmptyContent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.IndexDocumentation(ctx, "   ")
	assert.Error(t, err)
}

func TestSQLiteStoreRetrieveByKind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.IndexDDL(ctx, "CREATE TABLE orders (id INTEGER, amount REAL)")
	require.NoError(t, err)
	_, err = store.IndexDocumentation(ctx, "The orders table records one row per purchase.")
	require.NoError(t, err)

	ddls, err := store.RelevantDDL(ctx, "orders", 5)
	require.NoError(t, err)
	require.Len(t, ddls, 1)
	assert.Contains(t, ddls[0], "CREATE TABLE orders")

	docs, err := store.RelevantDocumentation(ctx, "orders", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Contains(t, docs[0], "one row per purchase")
}

func TestSQLiteStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.IndexDocumentation(ctx, "Amounts are stored in cents.")
	require.NoError(t, err)

	removed, err := store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	// Second delete finds nothing.
	removed, err = store.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, removed)

	// Unknown suffix is not an error.
	removed, err = store.Delete(ctx, "deadbeef-xyz")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSQLiteStoreAllOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.IndexQuestionSQL(ctx, "q", "SELECT 1;")
	require.NoError(t, err)
	_, err = store.IndexDDL(ctx, "CREATE TABLE t (id INTEGER)")
	require.NoError(t, err)
	_, err = store.IndexDocumentation(ctx, "doc text")
	require.NoError(t, err)

	items, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	kinds := make(map[types.TrainingKind]bool)
	for _, it := range items {
		kinds[it.Kind] = true
	}
	assert.True(t, kinds[types.KindSQL])
	assert.True(t, kinds[types.KindDDL])
	assert.True(t, kinds[types.KindDocumentation])
}

func TestFTSQuerySanitizesPunctuation(t *testing.T) {
	q := ftsQuery(`what's the "total" (by region)?`)
	assert.NotContains(t, q, "(")
	assert.NotContains(t, q, "?")
	assert.Contains(t, q, `"total"`)
	assert.Contains(t, q, " OR ")

	assert.Equal(t, "", ftsQuery("!!!"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory(0)
	ctx := context.Background()

	id, err := store.IndexQuestionSQL(ctx, "How many active users?",
		"SELECT count(*) FROM users WHERE active = 1;")
	require.NoError(t, err)

	pairs, err := store.RelevantQuestionSQL(ctx, "active users", 3)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "How many active users?", pairs[0].Question)

	// Unrelated question matches nothing.
	pairs, err = store.RelevantQuestionSQL(ctx, "zyxwvu", 3)
	require.NoError(t, err)
	assert.Empty(t, pairs)

	removed, err := store.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, removed)

	items, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosine(nil, nil))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"select", "count", "from", "users2"},
		tokenize("SELECT count(*) FROM users2;"))
	assert.Empty(t, tokenize("  ...  "))
}
