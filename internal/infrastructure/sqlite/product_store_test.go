package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/labelcheck/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *ProductStore {
	t.Helper()
	store, err := NewProductStore(filepath.Join(t.TempDir(), "data", "products.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func biscuits() *domain.ProductInfo {
	return &domain.ProductInfo{
		BrandName:   "Parle",
		ProductName: "Parle-G Gold Biscuits",
		Claims:      []string{"This product does not contain gold"},
		Ingredients: []domain.Ingredient{{Name: "Refined Wheat Flour (Maida)", Percent: "63%"}},
		NutritionalInformation: []domain.NutrientEntry{
			{Name: "Energy", Unit: "kcal", Values: []domain.NutrientValue{{Base: "per 100 g", Value: 462}}},
			{Name: "Sodium", Unit: "mg", Values: []domain.NutrientValue{{Base: "per 100 g", Value: 281}}},
		},
		ServingSize:     &domain.Quantity{Quantity: 18.8, Unit: "g"},
		PackagingSize:   &domain.Quantity{Quantity: 82, Unit: "g"},
		ServingsPerPack: 3.98,
		ShelfLife:       "7 months from packaging",
	}
}

func TestProductStore_SaveAssignsID(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Save(context.Background(), biscuits())

	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "Parle-G Gold Biscuits", saved.ProductName)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)
}

func TestProductStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, biscuits())
	require.NoError(t, err)

	got, err := store.Get(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, "Parle", got.BrandName)
	require.Len(t, got.NutritionalInformation, 2)
	assert.Equal(t, 462.0, got.NutritionalInformation[0].Values[0].Value)
	require.NotNil(t, got.ServingSize)
	assert.Equal(t, 18.8, got.ServingSize.Quantity)
	assert.Equal(t, "g", got.ServingSize.Unit)
	assert.Equal(t, []string{"Refined Wheat Flour (Maida)"}, got.IngredientNames())
}

func TestProductStore_UpsertKeepsCreatedAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, biscuits())
	require.NoError(t, err)

	update := biscuits()
	update.ID = first.ID
	update.ProductName = "Parle-G Gold"
	second, err := store.Save(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Parle-G Gold", second.ProductName)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestProductStore_GetNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductStore_ListRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"first", "second", "third"} {
		p := biscuits()
		p.ProductName = name
		_, err := store.Save(ctx, p)
		require.NoError(t, err)
	}

	got, err := store.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "third", got[0].ProductName)
	assert.Equal(t, "second", got[1].ProductName)
}

func TestProductStore_PragmasOnEveryConnection(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// held open together so the pool hands out distinct connections
	var conns []*sql.Conn
	for i := 0; i < 3; i++ {
		conn, err := store.db.Conn(ctx)
		require.NoError(t, err)
		conns = append(conns, conn)
	}
	defer func() {
		for _, conn := range conns {
			conn.Close()
		}
	}()

	for i, conn := range conns {
		var timeout int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
		assert.Equal(t, 5000, timeout, "connection %d", i)

		var mode string
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode, "connection %d", i)
	}
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "file:data/labelcheck.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		dsn("data/labelcheck.db"))
}
