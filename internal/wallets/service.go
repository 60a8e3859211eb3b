package wallets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
)

// Service exposes wallet balances and the two settlement primitives.
// Credit and Debit run inside a caller-supplied transaction so the wallet
// mutation commits together with its ledger entry.
type Service interface {
	GetBalance(ctx context.Context, storeID uuid.UUID) (int64, error)
	BalanceIn(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (int64, error)
	Credit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error)
	Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error)
}

type service struct {
	repo Repository
}

// NewService wires a wallet service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

// GetBalance treats an absent wallet row as a zero balance. Rows are
// created lazily on the first credit or debit.
func (s *service) GetBalance(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return s.BalanceIn(ctx, nil, storeID)
}

// BalanceIn reads the balance through the caller's transaction so a
// settlement unit observes its own uncommitted writes.
func (s *service) BalanceIn(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (int64, error) {
	if storeID == uuid.Nil {
		return 0, fmt.Errorf("store id is required")
	}
	wallet, err := s.repo.WithTx(tx).Find(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) Credit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction required")
	}
	if storeID == uuid.Nil {
		return 0, fmt.Errorf("store id is required")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	repo := s.repo.WithTx(tx)
	if err := repo.CreditUpsert(ctx, storeID, amount); err != nil {
		return 0, err
	}
	wallet, err := repo.Find(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}

func (s *service) Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error) {
	if tx == nil {
		return 0, fmt.Errorf("transaction required")
	}
	if storeID == uuid.Nil {
		return 0, fmt.Errorf("store id is required")
	}
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	repo := s.repo.WithTx(tx)
	if err := repo.EnsureRow(ctx, storeID); err != nil {
		return 0, err
	}
	ok, err := repo.DebitIfSufficient(ctx, storeID, amount)
	if err != nil {
		return 0, err
	}
	if !ok {
		wallet, err := repo.Find(ctx, storeID)
		if err != nil {
			return 0, err
		}
		return 0, apperrors.InsufficientFunds(amount - wallet.Balance)
	}
	wallet, err := repo.Find(ctx, storeID)
	if err != nil {
		return 0, err
	}
	return wallet.Balance, nil
}
