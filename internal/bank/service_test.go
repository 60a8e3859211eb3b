package bank

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/internal/topups"
	"github.com/franchisely/franchise-backend/internal/wallets"
	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
)

func setupBankTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS bank_transactions (
  id TEXT PRIMARY KEY,
  external_tx_id TEXT NOT NULL UNIQUE,
  amount INTEGER NOT NULL,
  memo TEXT,
  depositor_name TEXT,
  occurred_at DATETIME,
  matched INTEGER NOT NULL DEFAULT 0,
  matched_topup_id TEXT,
  matched_store_id TEXT,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS topup_requests (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL UNIQUE,
  store_id TEXT NOT NULL,
  amount INTEGER NOT NULL,
  depositor_name TEXT,
  status TEXT NOT NULL,
  deposit_code TEXT UNIQUE,
  created_at DATETIME,
  paid_at DATETIME
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
	store *models.Store
}

func (f *fakeStoreLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if f.store != nil && f.store.ID == id {
		return f.store, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOfficeLoader struct {
	office *models.HeadOffice
}

func (f *fakeOfficeLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error) {
	if f.office != nil && f.office.ID == id {
		return f.office, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type bankHarness struct {
	conn      *gorm.DB
	svc       Service
	topupSvc  topups.Service
	ledgerSvc ledger.Service
	walletSvc wallets.Service
	store     *models.Store
}

func newBankHarness(t *testing.T) *bankHarness {
	t.Helper()

	conn := setupBankTestDB(t)

	office := &models.HeadOffice{ID: uuid.New(), Seq: 12, Name: "Office", Status: enums.HeadOfficeStatusActive}
	store := &models.Store{ID: uuid.New(), Seq: 34, HeadOfficeID: office.ID, Name: "Branch", Status: enums.StoreStatusActive}

	walletSvc, err := wallets.NewService(wallets.NewRepository(conn))
	require.NoError(t, err)
	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn), walletSvc)
	require.NoError(t, err)

	topupRepo := topups.NewRepository(conn)
	topupSvc, err := topups.NewService(
		topupRepo,
		db.NewFromConn(conn),
		&fakeStoreLoader{store: store},
		&fakeOfficeLoader{office: office},
		walletSvc,
		ledgerSvc,
		nil,
	)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), topupRepo, topupSvc, nil)
	require.NoError(t, err)

	return &bankHarness{
		conn:      conn,
		svc:       svc,
		topupSvc:  topupSvc,
		ledgerSvc: ledgerSvc,
		walletSvc: walletSvc,
		store:     store,
	}
}

func (h *bankHarness) requestTopup(t *testing.T, amount int64) *models.TopupRequest {
	t.Helper()
	result, err := h.topupSvc.Request(context.Background(), topups.RequestInput{
		StoreID: h.store.ID,
		Amount:  amount,
	})
	require.NoError(t, err)
	return result.Topup
}

func TestService_IngestMatches(t *testing.T) {
	h := newBankHarness(t)
	ctx := context.Background()

	topup := h.requestTopup(t, 50000)

	result, err := h.svc.Ingest(ctx, IngestInput{
		ExternalTxID:  "bank-001",
		Amount:        50000,
		Memo:          "HONG GILDONG " + topup.DepositCode,
		DepositorName: "Hong Gildong",
		OccurredAt:    time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.True(t, result.Matched)
	assert.Equal(t, topup.DepositCode, result.DepositCode)
	require.NotNil(t, result.TopupID)
	assert.Equal(t, topup.ID, *result.TopupID)

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)

	settled, err := h.topupSvc.Get(ctx, topup.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.TopupStatusPaid, settled.Status)

	record, err := NewRepository(h.conn).FindByExternalID(ctx, "bank-001")
	require.NoError(t, err)
	assert.True(t, record.Matched)
	require.NotNil(t, record.MatchedTopupID)
	assert.Equal(t, topup.ID, *record.MatchedTopupID)
	require.NotNil(t, record.MatchedStoreID)
	assert.Equal(t, h.store.ID, *record.MatchedStoreID)
}

func TestService_IngestReplayIsNoOp(t *testing.T) {
	h := newBankHarness(t)
	ctx := context.Background()

	topup := h.requestTopup(t, 20000)
	input := IngestInput{
		ExternalTxID: "bank-002",
		Amount:       20000,
		Memo:         topup.DepositCode,
		OccurredAt:   time.Now(),
	}

	_, err := h.svc.Ingest(ctx, input)
	require.NoError(t, err)

	replay, err := h.svc.Ingest(ctx, input)
	require.NoError(t, err)
	assert.True(t, replay.Duplicate)
	assert.True(t, replay.Matched)

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance, "replay must not credit twice")

	entries, err := h.ledgerSvc.History(ctx, h.store.ID, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestService_IngestSecondTransferSameCode(t *testing.T) {
	h := newBankHarness(t)
	ctx := context.Background()

	topup := h.requestTopup(t, 9000)
	_, err := h.svc.Ingest(ctx, IngestInput{ExternalTxID: "bank-003", Amount: 9000, Memo: topup.DepositCode})
	require.NoError(t, err)

	// Distinct external id reusing a settled code: recorded, no second credit.
	second, err := h.svc.Ingest(ctx, IngestInput{ExternalTxID: "bank-004", Amount: 9000, Memo: topup.DepositCode})
	require.NoError(t, err)
	assert.False(t, second.Duplicate)
	assert.True(t, second.Matched)

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), balance)

	rec, err := h.ledgerSvc.Reconcile(ctx, h.store.ID)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)
}

func TestService_IngestUnmatched(t *testing.T) {
	h := newBankHarness(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		memo     string
		wantCode bool
		setup    func() int64
	}{
		{name: "no code in memo", memo: "rent payment", setup: func() int64 { return 1000 }},
		{name: "unknown code", memo: "99-99-99", wantCode: true, setup: func() int64 { return 1000 }},
		{name: "amount mismatch", memo: "", wantCode: true, setup: func() int64 {
			topup := h.requestTopup(t, 5000)
			return topup.Amount + 1
		}},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount := tc.setup()
			memo := tc.memo
			if memo == "" {
				topups, err := h.topupSvc.ListByStore(ctx, h.store.ID, 1)
				require.NoError(t, err)
				memo = topups[0].DepositCode
			}
			result, err := h.svc.Ingest(ctx, IngestInput{
				ExternalTxID: uuid.NewString() + "-" + string(rune('a'+i)),
				Amount:       amount,
				Memo:         memo,
			})
			require.NoError(t, err)
			assert.False(t, result.Matched)
			assert.False(t, result.Duplicate)
			if tc.wantCode {
				assert.Equal(t, memo, result.DepositCode, "a parsed code must surface for reconciliation")
			} else {
				assert.Empty(t, result.DepositCode)
			}
		})
	}

	balance, err := h.walletSvc.GetBalance(ctx, h.store.ID)
	require.NoError(t, err)
	assert.Zero(t, balance, "unmatched events must never credit")
}

func TestService_IngestValidation(t *testing.T) {
	h := newBankHarness(t)

	_, err := h.svc.Ingest(context.Background(), IngestInput{ExternalTxID: "  "})
	appErr := apperrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code())
}
