package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/invenx-app/invenx-backend/internal/identity"
	"github.com/invenx-app/invenx-backend/internal/notify"
	"github.com/invenx-app/invenx-backend/pkg/db/models"
	"github.com/invenx-app/invenx-backend/pkg/enums"
	pkgerrors "github.com/invenx-app/invenx-backend/pkg/errors"
	"github.com/invenx-app/invenx-backend/pkg/logger"
	"github.com/invenx-app/invenx-backend/pkg/metrics"
)

// Store is the durable snapshot surface the ledger persists through. Every
// method is fail-soft; the ledger never sees a storage error.
type Store interface {
	LoadProducts(ctx context.Context) []models.Product
	LoadHistory(ctx context.Context) []models.HistoryEntry
	SaveSnapshot(ctx context.Context, products []models.Product, history []models.HistoryEntry)
	AddPendingSync(ctx context.Context, item models.PendingSyncItem)
}

// ConnectivitySource reports whether mutations can reach the network right
// now. Offline mutations are queued for later reconciliation.
type ConnectivitySource interface {
	IsOnline() bool
}

// Service is the single authority over the product and history collections.
type Service interface {
	AddProduct(ctx context.Context, input AddProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) bool
	IncrementValue(ctx context.Context, id string, field enums.CounterField) (*models.Product, error)
	DecrementValue(ctx context.Context, id string, field enums.CounterField) (*models.Product, error)
	Product(ctx context.Context, id string) (*models.Product, bool)
	FindProductByBarcode(ctx context.Context, barcode string) (*models.Product, bool)
	Products(ctx context.Context) []models.Product
	History(ctx context.Context) []models.HistoryEntry
}

// AddProductInput holds the validated payload to create a product.
type AddProductInput struct {
	Name          string
	Barcode       string
	Category      string
	SoldIn        int
	SoldOut       int
	Damaged       int
	LowStockLimit int
}

// UpdateProductInput holds optional mutation values for a product. Counter
// fields replace the stored value; Available is always rederived.
type UpdateProductInput struct {
	Name          *string
	Barcode       *string
	Category      *string
	SoldIn        *int
	SoldOut       *int
	Damaged       *int
	LowStockLimit *int
}

// ServiceParams configure the ledger service.
type ServiceParams struct {
	Store        Store
	Connectivity ConnectivitySource
	Identity     identity.Provider
	Logger       *logger.Logger
	Metrics      *metrics.LedgerMetrics

	// Notifier surfaces low-stock warnings to the shell. Optional; nil
	// disables the notices.
	Notifier notify.Notifier

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

type service struct {
	mu       sync.Mutex
	products []models.Product
	history  []models.HistoryEntry

	store        Store
	connectivity ConnectivitySource
	identity     identity.Provider
	logg         *logger.Logger
	metrics      *metrics.LedgerMetrics
	notifier     notify.Notifier
	now          func() time.Time
	newID        func() string
}

// NewService loads the persisted snapshot and wires the ledger. Mutations are
// serialized by a single mutex: the original app ran every handler on one
// thread, and the mutex gives the same one-at-a-time semantics behind a
// concurrent HTTP listener.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store required")
	}
	if params.Connectivity == nil {
		return nil, fmt.Errorf("connectivity source required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("identity provider required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	if params.NewID == nil {
		params.NewID = uuid.NewString
	}

	svc := &service{
		store:        params.Store,
		connectivity: params.Connectivity,
		identity:     params.Identity,
		logg:         params.Logger,
		metrics:      params.Metrics,
		notifier:     params.Notifier,
		now:          params.Now,
		newID:        params.NewID,
	}

	ctx := context.Background()
	svc.products = params.Store.LoadProducts(ctx)
	svc.history = params.Store.LoadHistory(ctx)
	sortHistory(svc.history)

	return svc, nil
}

func (s *service) AddProduct(ctx context.Context, input AddProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	barcode := strings.TrimSpace(input.Barcode)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required")
	}
	if input.SoldIn < 0 || input.SoldOut < 0 || input.Damaged < 0 || input.LowStockLimit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counter values must not be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing := s.findByBarcodeLocked(barcode); existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered").
			WithDetails(map[string]string{"barcode": barcode, "product_id": existing.ID})
	}

	product := recomputeAvailable(models.Product{
		ID:            s.newID(),
		Name:          name,
		Barcode:       barcode,
		Category:      strings.TrimSpace(input.Category),
		SoldIn:        input.SoldIn,
		SoldOut:       input.SoldOut,
		Damaged:       input.Damaged,
		LowStockLimit: input.LowStockLimit,
		CreatedAt:     s.now(),
	})

	s.products = append(s.products, product)
	s.appendHistoryLocked(ctx, product.ID, product.Name, enums.HistoryActionAdd, product.SoldIn)
	s.enqueueLocked(ctx, enums.SyncActionAdd, product)
	s.persistLocked(ctx)
	s.metrics.IncMutation("add_product")
	s.logMutation(ctx, product, "product added")
	s.maybeNotifyLowStock(ctx, models.Product{}, product)

	return &product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := validateCounters(input); err != nil {
		return nil, err
	}

	idx := s.indexOfLocked(id)
	if idx < 0 {
		// Unknown ids are a silent no-op; the edge decides what that means.
		return nil, nil
	}

	before := s.products[idx]
	product := before
	if input.Name != nil {
		if trimmed := strings.TrimSpace(*input.Name); trimmed != "" {
			product.Name = trimmed
		}
	}
	if input.Barcode != nil {
		trimmed := strings.TrimSpace(*input.Barcode)
		if trimmed != "" && trimmed != product.Barcode {
			if existing := s.findByBarcodeLocked(trimmed); existing != nil {
				return nil, pkgerrors.New(pkgerrors.CodeConflict, "barcode already registered").
					WithDetails(map[string]string{"barcode": trimmed, "product_id": existing.ID})
			}
			product.Barcode = trimmed
		}
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.SoldIn != nil {
		product.SoldIn = *input.SoldIn
	}
	if input.SoldOut != nil {
		product.SoldOut = *input.SoldOut
	}
	if input.Damaged != nil {
		product.Damaged = *input.Damaged
	}
	if input.LowStockLimit != nil {
		product.LowStockLimit = *input.LowStockLimit
	}

	product = recomputeAvailable(product)
	s.products[idx] = product

	s.appendHistoryLocked(ctx, product.ID, product.Name, enums.HistoryActionUpdate, 1)
	s.enqueueLocked(ctx, enums.SyncActionUpdate, product)
	s.persistLocked(ctx)
	s.metrics.IncMutation("update_product")
	s.logMutation(ctx, product, "product updated")
	s.maybeNotifyLowStock(ctx, before, product)

	return &product, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return false
	}

	product := s.products[idx]
	s.products = append(s.products[:idx], s.products[idx+1:]...)

	// Earlier entries for this product stay in the history untouched.
	s.appendHistoryLocked(ctx, product.ID, product.Name, enums.HistoryActionRemove, 1)
	s.enqueueLocked(ctx, enums.SyncActionDelete, map[string]string{"id": product.ID})
	s.persistLocked(ctx)
	s.metrics.IncMutation("delete_product")
	s.logMutation(ctx, product, "product deleted")

	return true
}

func (s *service) IncrementValue(ctx context.Context, id string, field enums.CounterField) (*models.Product, error) {
	if !field.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown counter field %q", field))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, nil
	}

	before := s.products[idx]
	product := before
	switch field {
	case enums.CounterFieldSoldIn:
		product.SoldIn++
	case enums.CounterFieldSoldOut:
		product.SoldOut++
	case enums.CounterFieldDamaged:
		product.Damaged++
	}

	product = recomputeAvailable(product)
	s.products[idx] = product

	s.appendHistoryLocked(ctx, product.ID, product.Name, field.IncrementAction(), 1)
	s.enqueueLocked(ctx, enums.SyncActionUpdate, product)
	s.persistLocked(ctx)
	s.metrics.IncMutation("increment_value")
	s.logMutation(ctx, product, "counter incremented")
	s.maybeNotifyLowStock(ctx, before, product)

	return &product, nil
}

func (s *service) DecrementValue(ctx context.Context, id string, field enums.CounterField) (*models.Product, error) {
	if !field.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown counter field %q", field))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, nil
	}

	before := s.products[idx]
	product := before
	switch field {
	case enums.CounterFieldSoldIn:
		if product.SoldIn > 0 {
			product.SoldIn--
		}
	case enums.CounterFieldSoldOut:
		if product.SoldOut > 0 {
			product.SoldOut--
		}
	case enums.CounterFieldDamaged:
		if product.Damaged > 0 {
			product.Damaged--
		}
	}

	product = recomputeAvailable(product)
	s.products[idx] = product

	// The floor keeps the counter at zero, but the entry is recorded either
	// way. The original app always appended it, so downstream consumers see
	// the attempt even when nothing changed.
	s.appendHistoryLocked(ctx, product.ID, product.Name, enums.HistoryActionUpdate, -1)
	s.enqueueLocked(ctx, enums.SyncActionUpdate, product)
	s.persistLocked(ctx)
	s.metrics.IncMutation("decrement_value")
	s.logMutation(ctx, product, "counter decremented")
	s.maybeNotifyLowStock(ctx, before, product)

	return &product, nil
}

func (s *service) Product(_ context.Context, id string) (*models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return nil, false
	}
	product := s.products[idx]
	return &product, true
}

func (s *service) FindProductByBarcode(_ context.Context, barcode string) (*models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if found := s.findByBarcodeLocked(strings.TrimSpace(barcode)); found != nil {
		product := *found
		return &product, true
	}
	return nil, false
}

func (s *service) Products(_ context.Context) []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *service) History(_ context.Context) []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// validateCounters rejects negative counter values on the merge path. The
// counters share the non-negative invariant with the decrement floor.
func validateCounters(input UpdateProductInput) error {
	for name, value := range map[string]*int{
		"soldIn":        input.SoldIn,
		"soldOut":       input.SoldOut,
		"damaged":       input.Damaged,
		"lowStockLimit": input.LowStockLimit,
	} {
		if value != nil && *value < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s must not be negative", name))
		}
	}
	return nil
}

// recomputeAvailable is the single derivation point for the available
// quantity. It can go negative; nothing clamps it.
func recomputeAvailable(product models.Product) models.Product {
	product.Available = product.SoldIn - product.SoldOut - product.Damaged
	return product
}

func (s *service) appendHistoryLocked(ctx context.Context, productID, productName string, action enums.HistoryAction, quantity int) {
	entry := models.HistoryEntry{
		ID:          s.newID(),
		ProductID:   productID,
		ProductName: productName,
		Action:      action,
		Quantity:    quantity,
		Timestamp:   s.now(),
		User:        s.actorName(ctx),
	}
	s.history = append([]models.HistoryEntry{entry}, s.history...)
}

func (s *service) logMutation(ctx context.Context, product models.Product, msg string) {
	ctx = s.logg.WithProductID(ctx, product.ID)
	ctx = s.logg.WithUser(ctx, s.actorName(ctx))
	s.logg.Info(ctx, msg)
}

// maybeNotifyLowStock warns the shell when a mutation pushes a product into
// low stock. Only the crossing fires; staying low stays quiet.
func (s *service) maybeNotifyLowStock(ctx context.Context, before, after models.Product) {
	if s.notifier == nil {
		return
	}
	if !after.IsLowStock() || before.IsLowStock() {
		return
	}
	s.notifier.Publish(ctx, notify.Notification{
		Kind:    enums.NotificationKindWarning,
		Title:   "Low stock",
		Message: fmt.Sprintf("%s is down to %d available.", after.Name, after.Available),
	})
}

func (s *service) actorName(ctx context.Context) string {
	if user, ok := s.identity.CurrentUser(ctx); ok && user.Name != "" {
		return user.Name
	}
	return "Admin"
}

func (s *service) enqueueLocked(ctx context.Context, action enums.SyncAction, data any) {
	if s.connectivity.IsOnline() {
		return
	}
	payload, err := json.Marshal(data)
	if err != nil {
		s.logg.Error(ctx, "failed to encode pending sync payload", err)
		return
	}
	s.store.AddPendingSync(ctx, models.PendingSyncItem{
		Type:      enums.SyncItemTypeProduct,
		Action:    action,
		Data:      payload,
		Timestamp: s.now(),
	})
}

func (s *service) persistLocked(ctx context.Context) {
	s.store.SaveSnapshot(ctx, s.products, s.history)
}

func (s *service) indexOfLocked(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *service) findByBarcodeLocked(barcode string) *models.Product {
	for i := range s.products {
		if s.products[i].Barcode == barcode {
			return &s.products[i]
		}
	}
	return nil
}

func sortHistory(history []models.HistoryEntry) {
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.After(history[j].Timestamp)
	})
}
