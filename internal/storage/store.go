package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/invenx-app/invenx-backend/pkg/db"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot keys mirror the storage layout of the original device app.
const (
	productsKey    = "invenx_products"
	historyKey     = "invenx_history"
	pendingSyncKey = "invenx_pending_sync"
)

// Store persists the three snapshot collections in the local database. Every
// operation is fail-soft: loads degrade to empty collections and saves are
// dropped with a log line, so a broken storage medium can never take the
// ledger down with it. SaveSnapshot wraps the products and history writes in
// one transaction so the two collections cannot diverge on a partial failure;
// the pending-sync queue key stays independent.
type Store struct {
	client *db.Client
	logg   *logger.Logger
}

// New wires a snapshot store against the provided database client.
func New(client *db.Client, logg *logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{client: client, logg: logg}, nil
}

// LoadProducts returns the persisted product collection, or an empty slice
// when the row is missing or corrupt.
func (s *Store) LoadProducts(ctx context.Context) []models.Product {
	var products []models.Product
	if err := s.load(ctx, productsKey, &products); err != nil {
		s.logg.Error(ctx, "failed to load products from storage", err)
		return []models.Product{}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products
}

// SaveProducts writes the full product collection. Failures are logged and
// dropped.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) {
	if err := s.save(ctx, productsKey, products); err != nil {
		s.logg.Error(ctx, "failed to save products to storage", err)
	}
}

// LoadHistory returns the persisted history, newest first, or an empty slice.
func (s *Store) LoadHistory(ctx context.Context) []models.HistoryEntry {
	var history []models.HistoryEntry
	if err := s.load(ctx, historyKey, &history); err != nil {
		s.logg.Error(ctx, "failed to load history from storage", err)
		return []models.HistoryEntry{}
	}
	if history == nil {
		history = []models.HistoryEntry{}
	}
	return history
}

// SaveHistory writes the full history collection. Failures are logged and
// dropped.
func (s *Store) SaveHistory(ctx context.Context, history []models.HistoryEntry) {
	if err := s.save(ctx, historyKey, history); err != nil {
		s.logg.Error(ctx, "failed to save history to storage", err)
	}
}

// SaveSnapshot persists products and history atomically. A failure on either
// write rolls back both, so the collections never drift apart on disk.
func (s *Store) SaveSnapshot(ctx context.Context, products []models.Product, history []models.HistoryEntry) {
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		return multierr.Combine(
			s.saveTx(tx, productsKey, products),
			s.saveTx(tx, historyKey, history),
		)
	})
	if err != nil {
		s.logg.Error(ctx, "failed to save ledger snapshot", err)
	}
}

// AddPendingSync appends one queued mutation, stamping it with enqueue time.
func (s *Store) AddPendingSync(ctx context.Context, item models.PendingSyncItem) {
	items := s.PendingSyncItems(ctx)
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now().UTC()
	}
	items = append(items, item)
	if err := s.save(ctx, pendingSyncKey, items); err != nil {
		s.logg.Error(ctx, "failed to add pending sync item", err)
	}
}

// PendingSyncItems returns the queued mutations in enqueue order.
func (s *Store) PendingSyncItems(ctx context.Context) []models.PendingSyncItem {
	var items []models.PendingSyncItem
	if err := s.load(ctx, pendingSyncKey, &items); err != nil {
		s.logg.Error(ctx, "failed to load pending sync items", err)
		return []models.PendingSyncItem{}
	}
	if items == nil {
		items = []models.PendingSyncItem{}
	}
	return items
}

// PendingSyncCount returns the queue length.
func (s *Store) PendingSyncCount(ctx context.Context) int {
	return len(s.PendingSyncItems(ctx))
}

// ClearPendingSync empties the queue wholesale.
func (s *Store) ClearPendingSync(ctx context.Context) {
	if err := s.save(ctx, pendingSyncKey, []models.PendingSyncItem{}); err != nil {
		s.logg.Error(ctx, "failed to clear pending sync items", err)
	}
}

func (s *Store) load(ctx context.Context, key string, dest any) error {
	var entry models.KVEntry
	err := s.client.DB().WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dest); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	return s.saveTx(s.client.DB().WithContext(ctx), key, value)
}

func (s *Store) saveTx(tx *gorm.DB, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	entry := models.KVEntry{Key: key, Value: string(payload)}
	err = tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
