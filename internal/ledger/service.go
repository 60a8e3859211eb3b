package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

// BalanceReader resolves the current wallet balance for a store. It is
// implemented by the wallets service.
type BalanceReader interface {
	GetBalance(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// Service exposes the ledger to readers and to the services that settle
// money movements. Append never runs outside a caller-supplied transaction;
// an entry that is not committed together with its wallet mutation would
// break the balance invariant.
type Service interface {
	Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.LedgerEntry, error)
	History(ctx context.Context, storeID uuid.UUID, limit int) ([]models.LedgerEntry, error)
	Reconcile(ctx context.Context, storeID uuid.UUID) (Reconciliation, error)
}

// AppendInput captures the immutable data a ledger entry requires.
type AppendInput struct {
	StoreID uuid.UUID
	Type    enums.LedgerEntryType
	Amount  int64
	RefType enums.LedgerRefType
	RefID   uuid.UUID
	Memo    string
}

// Reconciliation compares the wallet's cached balance with the sum of the
// store's ledger entries. The two are equal at every commit point.
type Reconciliation struct {
	StoreID       uuid.UUID `json:"store_id"`
	WalletBalance int64     `json:"wallet_balance"`
	LedgerSum     int64     `json:"ledger_sum"`
	Consistent    bool      `json:"consistent"`
}

type service struct {
	repo     Repository
	balances BalanceReader
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository, balances BalanceReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance reader required")
	}
	return &service{repo: repo, balances: balances}, nil
}

func (s *service) Append(ctx context.Context, tx *gorm.DB, input AppendInput) (*models.LedgerEntry, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	if input.StoreID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	if input.RefID == uuid.Nil {
		return nil, fmt.Errorf("ref id is required")
	}
	if !input.Type.IsValid() {
		return nil, fmt.Errorf("invalid ledger entry type %q", input.Type)
	}
	if !input.RefType.IsValid() {
		return nil, fmt.Errorf("invalid ledger ref type %q", input.RefType)
	}
	switch input.Type {
	case enums.LedgerEntryTypeCharge:
		if input.Amount <= 0 {
			return nil, fmt.Errorf("charge amount must be positive, got %d", input.Amount)
		}
	case enums.LedgerEntryTypeOrderDebit:
		if input.Amount >= 0 {
			return nil, fmt.Errorf("order debit amount must be negative, got %d", input.Amount)
		}
	}

	entry := &models.LedgerEntry{
		ID:      uuid.New(),
		StoreID: input.StoreID,
		Type:    input.Type,
		Amount:  input.Amount,
		RefType: input.RefType,
		RefID:   input.RefID,
		Memo:    input.Memo,
	}
	if err := s.repo.WithTx(tx).Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) History(ctx context.Context, storeID uuid.UUID, limit int) ([]models.LedgerEntry, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	return s.repo.ListByStore(ctx, storeID, pagination.NormalizeLimit(limit))
}

func (s *service) Reconcile(ctx context.Context, storeID uuid.UUID) (Reconciliation, error) {
	if storeID == uuid.Nil {
		return Reconciliation{}, fmt.Errorf("store id is required")
	}
	sum, err := s.repo.SumByStore(ctx, storeID)
	if err != nil {
		return Reconciliation{}, err
	}
	balance, err := s.balances.GetBalance(ctx, storeID)
	if err != nil {
		return Reconciliation{}, err
	}
	return Reconciliation{
		StoreID:       storeID,
		WalletBalance: balance,
		LedgerSum:     sum,
		Consistent:    balance == sum,
	}, nil
}
