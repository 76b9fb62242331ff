package storage

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/invenx-app/invenx-backend/pkg/db"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.KVEntry{}))

	logg := logger.New(logger.Options{ServiceName: "storage-test", Output: io.Discard})
	store, err := New(db.FromConn(conn), logg)
	require.NoError(t, err)
	return store
}

func TestNewValidatesDependencies(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "storage-test", Output: io.Discard})

	_, err := New(nil, logg)
	require.Error(t, err)

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	_, err = New(db.FromConn(conn), nil)
	require.Error(t, err)
}

func TestProductsRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	products := []models.Product{
		{
			ID:        "p-1",
			Name:      "Wine",
			Barcode:   "7891234567890",
			Category:  "Alcohol",
			SoldIn:    10,
			Available: 10,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
		{
			ID:        "p-2",
			Name:      "Beer",
			Barcode:   "7891234567891",
			SoldIn:    500,
			SoldOut:   200,
			Damaged:   10,
			Available: 290,
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		},
	}

	store.SaveProducts(ctx, products)
	loaded := store.LoadProducts(ctx)

	require.Len(t, loaded, 2)
	assert.Equal(t, products[0].ID, loaded[0].ID)
	assert.Equal(t, products[1].Available, loaded[1].Available)
	assert.Equal(t, products[0].Barcode, loaded[0].Barcode)
}

func TestLoadsDegradeToEmptyCollections(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	assert.Empty(t, store.LoadProducts(ctx))
	assert.Empty(t, store.LoadHistory(ctx))
	assert.Empty(t, store.PendingSyncItems(ctx))
	assert.Zero(t, store.PendingSyncCount(ctx))
}

func TestCorruptRowDegradesToEmpty(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	entry := models.KVEntry{Key: "invenx_products", Value: "{not json"}
	require.NoError(t, store.client.DB().Create(&entry).Error)

	assert.Empty(t, store.LoadProducts(ctx))
}

func TestHistoryRoundTripKeepsOrder(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	history := []models.HistoryEntry{
		{ID: "h-2", ProductID: "p-1", ProductName: "Wine", Action: enums.HistoryActionSold, Quantity: 1, Timestamp: now},
		{ID: "h-1", ProductID: "p-1", ProductName: "Wine", Action: enums.HistoryActionAdd, Quantity: 10, Timestamp: now.Add(-time.Hour)},
	}

	store.SaveHistory(ctx, history)
	loaded := store.LoadHistory(ctx)

	require.Len(t, loaded, 2)
	assert.Equal(t, "h-2", loaded[0].ID)
	assert.Equal(t, "h-1", loaded[1].ID)
}

func TestPendingSyncQueueGrowsWithoutDeduplication(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	payload, err := json.Marshal(map[string]string{"id": "p-1"})
	require.NoError(t, err)

	item := models.PendingSyncItem{
		Type:   enums.SyncItemTypeProduct,
		Action: enums.SyncActionUpdate,
		Data:   payload,
	}
	for i := 0; i < 10; i++ {
		store.AddPendingSync(ctx, item)
	}

	items := store.PendingSyncItems(ctx)
	require.Len(t, items, 10)
	for _, got := range items {
		assert.Equal(t, enums.SyncItemTypeProduct, got.Type)
		assert.False(t, got.Timestamp.IsZero())
	}

	store.ClearPendingSync(ctx)
	assert.Zero(t, store.PendingSyncCount(ctx))
}

func TestSaveSnapshotWritesBothCollections(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	products := []models.Product{{ID: "p-1", Name: "Wine", Barcode: "123"}}
	history := []models.HistoryEntry{{ID: "h-1", ProductID: "p-1", ProductName: "Wine", Action: enums.HistoryActionAdd, Quantity: 10, Timestamp: time.Now().UTC()}}

	store.SaveSnapshot(ctx, products, history)

	assert.Len(t, store.LoadProducts(ctx), 1)
	assert.Len(t, store.LoadHistory(ctx), 1)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	store.SaveProducts(ctx, []models.Product{{ID: "p-1", Name: "Wine", Barcode: "123"}})
	store.SaveProducts(ctx, []models.Product{})

	assert.Empty(t, store.LoadProducts(ctx))
}
