package orders

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/internal/products"
	"github.com/franchisely/franchise-backend/internal/wallets"
	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
)

func setupOrderTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  store_id TEXT NOT NULL,
  head_office_id TEXT NOT NULL,
  status TEXT NOT NULL,
  total_amount INTEGER NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  qty INTEGER NOT NULL,
  unit_price INTEGER NOT NULL,
  line_total INTEGER NOT NULL,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  head_office_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price INTEGER NOT NULL,
  status TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS wallets (
  store_id TEXT PRIMARY KEY,
  balance INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS ledger_entries (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  store_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount INTEGER NOT NULL,
  ref_type TEXT NOT NULL,
  ref_id TEXT NOT NULL,
  memo TEXT,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

type fakeStoreLoader struct {
	stores map[uuid.UUID]*models.Store
}

func (f *fakeStoreLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	store, ok := f.stores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return store, nil
}

type orderHarness struct {
	conn       *gorm.DB
	svc        Service
	productSvc products.Service
	walletSvc  wallets.Service
	ledgerSvc  ledger.Service
	store      *models.Store
	office     uuid.UUID
}

func newOrderHarness(t *testing.T) *orderHarness {
	t.Helper()

	conn := setupOrderTestDB(t)

	officeID := uuid.New()
	store := &models.Store{ID: uuid.New(), Seq: 1, HeadOfficeID: officeID, Name: "Branch", Status: enums.StoreStatusActive}

	productSvc, err := products.NewService(products.NewRepository(conn))
	require.NoError(t, err)
	walletSvc, err := wallets.NewService(wallets.NewRepository(conn))
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), walletSvc)
	require.NoError(t, err)

	svc, err := NewService(
		NewRepository(conn),
		db.NewFromConn(conn),
		&fakeStoreLoader{stores: map[uuid.UUID]*models.Store{store.ID: store}},
		productSvc,
		walletSvc,
		ledgerSvc,
		nil,
	)
	require.NoError(t, err)

	return &orderHarness{
		conn:       conn,
		svc:        svc,
		productSvc: productSvc,
		walletSvc:  walletSvc,
		ledgerSvc:  ledgerSvc,
		store:      store,
		office:     officeID,
	}
}

func (h *orderHarness) addProduct(t *testing.T, name string, price int64) *models.Product {
	t.Helper()
	product, err := h.productSvc.Create(context.Background(), products.CreateInput{
		HeadOfficeID: h.office,
		Name:         name,
		Price:        price,
	})
	require.NoError(t, err)
	return product
}

func (h *orderHarness) fund(t *testing.T, amount int64) {
	t.Helper()
	_, err := h.walletSvc.Credit(context.Background(), h.conn, h.store.ID, amount)
	require.NoError(t, err)
}

func TestService_PlaceOrder(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	beans := h.addProduct(t, "Beans 1kg", 28000)
	cups := h.addProduct(t, "Cups 1000ct", 15000)
	h.fund(t, 100000)

	order, err := h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{
		{ProductID: beans.ID, Qty: 2},
		{ProductID: cups.ID, Qty: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, int64(71000), order.TotalAmount)
	assert.Equal(t, h.office, order.HeadOfficeID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(28000), order.Items[0].UnitPrice)
	assert.Equal(t, int64(56000), order.Items[0].LineTotal)

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(29000), balance)

	entries, err := h.ledgerSvc.History(ctx, h.store.ID, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enums.LedgerEntryTypeOrderDebit, entries[0].Type)
	assert.Equal(t, int64(-71000), entries[0].Amount)
	assert.Equal(t, enums.LedgerRefTypeOrder, entries[0].RefType)
	assert.Equal(t, order.ID, entries[0].RefID)

	stored, err := h.svc.GetForStore(ctx, h.store.ID, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}

func TestService_PlaceOrderPriceSnapshot(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	beans := h.addProduct(t, "Beans", 10000)
	h.fund(t, 50000)

	order, err := h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: beans.ID, Qty: 1}})
	require.NoError(t, err)

	newPrice := int64(99999)
	_, err = h.productSvc.Update(ctx, beans.ID, products.UpdateInput{Price: &newPrice})
	require.NoError(t, err)

	stored, err := h.svc.GetForStore(ctx, h.store.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), stored.Items[0].UnitPrice, "later price changes must not touch the order")
}

func TestService_PlaceOrderInsufficientFunds(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	beans := h.addProduct(t, "Beans", 28000)
	h.fund(t, 30000)

	_, err := h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: beans.ID, Qty: 2}})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeInsufficientFunds, appErr.Code())
	assert.Equal(t, map[string]any{"needed": int64(26000)}, appErr.Details())

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), balance, "failed settlement must roll back the debit")

	listed, err := h.svc.List(ctx, h.store.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, listed, "no order row may survive a failed settlement")

	entries, err := h.ledgerSvc.History(ctx, h.store.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_PlaceOrderProductMismatch(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	mine := h.addProduct(t, "Mine", 1000)
	foreign, err := h.productSvc.Create(ctx, products.CreateInput{
		HeadOfficeID: uuid.New(),
		Name:         "Foreign",
		Price:        500,
	})
	require.NoError(t, err)
	h.fund(t, 100000)

	_, err = h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{
		{ProductID: mine.ID, Qty: 1},
		{ProductID: foreign.ID, Qty: 1},
	})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeProductMismatch, appErr.Code())
	assert.Equal(t, map[string]any{"product_id": foreign.ID.String()}, appErr.Details())

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), balance)
}

func TestService_ConcurrentPlaceOrdersNeverOverspend(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	// In-memory sqlite rejects concurrent writers; one pooled connection
	// makes the racing transactions queue instead.
	sqlDB, err := h.conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	product := h.addProduct(t, "Beans", 6000)
	h.fund(t, 10000)

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: product.ID, Qty: 1}})
		}(i)
	}
	wg.Wait()

	settled := 0
	for _, placeErr := range errs {
		if placeErr == nil {
			settled++
			continue
		}
		appErr := apperrors.As(placeErr)
		require.NotNil(t, appErr, "unexpected failure: %v", placeErr)
		assert.Equal(t, apperrors.CodeInsufficientFunds, appErr.Code())
	}
	assert.Equal(t, 1, settled, "a 10000 balance funds exactly one 6000 order")

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), balance, "losers must not drive the balance below zero")

	listed, err := h.svc.List(ctx, h.store.ID, 10)
	require.NoError(t, err)
	assert.Len(t, listed, settled, "only the winning settlement may persist an order")

	rec, err := h.ledgerSvc.Reconcile(ctx, h.store.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent, "wallet balance must equal ledger sum: %+v", rec)
}

func TestService_PlaceOrderRejectsNonActiveProducts(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	product := h.addProduct(t, "Seasonal Blend", 2000)
	h.fund(t, 10000)

	soldOut := enums.ProductStatusSoldOut
	_, err := h.productSvc.Update(ctx, product.ID, products.UpdateInput{Status: &soldOut})
	require.NoError(t, err)

	_, err = h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: product.ID, Qty: 1}})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeProductMismatch, appErr.Code())
	assert.Equal(t, map[string]any{"product_id": product.ID.String()}, appErr.Details())

	inactive := enums.ProductStatusInactive
	_, err = h.productSvc.Update(ctx, product.ID, products.UpdateInput{Status: &inactive})
	require.NoError(t, err)

	_, err = h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: product.ID, Qty: 1}})
	appErr = apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeProductMismatch, appErr.Code())

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance, "nothing may settle against a delisted product")
}

func TestService_PlaceOrderValidation(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()
	product := h.addProduct(t, "Beans", 1000)

	cases := []struct {
		name  string
		store uuid.UUID
		lines []LineInput
	}{
		{name: "no items", store: h.store.ID, lines: nil},
		{name: "zero qty", store: h.store.ID, lines: []LineInput{{ProductID: product.ID, Qty: 0}}},
		{name: "negative qty", store: h.store.ID, lines: []LineInput{{ProductID: product.ID, Qty: -1}}},
		{name: "nil product", store: h.store.ID, lines: []LineInput{{Qty: 1}}},
		{name: "nil store", store: uuid.Nil, lines: []LineInput{{ProductID: product.ID, Qty: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.svc.PlaceOrder(ctx, tc.store, tc.lines)
			appErr := apperrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.CodeValidation, appErr.Code())
		})
	}

	_, err := h.svc.PlaceOrder(ctx, uuid.New(), []LineInput{{ProductID: product.ID, Qty: 1}})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}

func TestService_GetForStoreScoping(t *testing.T) {
	h := newOrderHarness(t)
	ctx := context.Background()

	product := h.addProduct(t, "Beans", 1000)
	h.fund(t, 10000)
	order, err := h.svc.PlaceOrder(ctx, h.store.ID, []LineInput{{ProductID: product.ID, Qty: 1}})
	require.NoError(t, err)

	_, err = h.svc.GetForStore(ctx, uuid.New(), order.ID)
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code(), "foreign store must not see the order")

	_, err = h.svc.GetForStore(ctx, h.store.ID, uuid.New())
	appErr = apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code())
}
