package topups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/internal/ledger"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/metrics"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type officeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error)
}

// walletFunds is the slice of the wallet layer settlement needs.
type walletFunds interface {
	Credit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error)
	BalanceIn(ctx context.Context, tx *gorm.DB, storeID uuid.UUID) (int64, error)
}

// ledgerAppender records the charge entry inside the settlement transaction.
type ledgerAppender interface {
	Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error)
}

// Service owns the top-up lifecycle. ApplyPaid is the single chokepoint
// both manual approval and bank matching settle through.
type Service interface {
	Request(ctx context.Context, input RequestInput) (*RequestResult, error)
	ApplyPaid(ctx context.Context, topupID uuid.UUID, memo string, refType enums.LedgerRefType) (ApplyPaidResult, error)
	ApplyPaidInTx(ctx context.Context, tx *gorm.DB, topupID uuid.UUID, memo string, refType enums.LedgerRefType) (ApplyPaidResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.TopupRequest, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.TopupRequest, error)
}

// RequestInput carries a store's ask to fund its wallet.
type RequestInput struct {
	StoreID       uuid.UUID
	Amount        int64
	DepositorName string
}

// DepositGuide tells the depositor where to send the transfer.
type DepositGuide struct {
	Bank          string `json:"bank"`
	Account       string `json:"account"`
	AccountHolder string `json:"account_holder"`
}

// RequestResult is a created top-up plus the head office deposit guide.
type RequestResult struct {
	Topup *models.TopupRequest
	Guide DepositGuide
}

// ApplyPaidResult reports the settled state. AlreadyPaid marks the
// idempotent replay path: the top-up was settled earlier and no second
// credit happened.
type ApplyPaidResult struct {
	TopupID     uuid.UUID `json:"topup_id"`
	StoreID     uuid.UUID `json:"store_id"`
	Balance     int64     `json:"balance"`
	AlreadyPaid bool      `json:"already_paid"`
}

type service struct {
	repo    Repository
	db      txRunner
	stores  storeLoader
	offices officeLoader
	wallets walletFunds
	ledger  ledgerAppender
	metrics *metrics.SettlementMetrics
}

// NewService wires a top-up service. The metrics collector may be nil.
func NewService(repo Repository, db txRunner, stores storeLoader, offices officeLoader, wallets walletFunds, ledgerSvc ledgerAppender, collectors *metrics.SettlementMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("topup repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if offices == nil {
		return nil, fmt.Errorf("head office loader required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if ledgerSvc == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	return &service{
		repo:    repo,
		db:      db,
		stores:  stores,
		offices: offices,
		wallets: wallets,
		ledger:  ledgerSvc,
		metrics: collectors,
	}, nil
}

func (s *service) Request(ctx context.Context, input RequestInput) (*RequestResult, error) {
	if input.StoreID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id is required")
	}
	if input.Amount <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "top-up amount must be positive")
	}

	store, err := s.stores.FindByID(ctx, input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, err
	}
	office, err := s.offices.FindByID(ctx, store.HeadOfficeID)
	if err != nil {
		return nil, err
	}

	var topup *models.TopupRequest
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		topup = &models.TopupRequest{
			ID:            uuid.New(),
			StoreID:       store.ID,
			Amount:        input.Amount,
			DepositorName: strings.TrimSpace(input.DepositorName),
			Status:        enums.TopupStatusRequested,
		}
		if err := repo.Create(ctx, topup); err != nil {
			return err
		}
		// Reload to pick up the database-assigned sequence the deposit
		// code is built from.
		created, err := repo.FindByID(ctx, topup.ID)
		if err != nil {
			return err
		}
		topup = created
		topup.DepositCode = FormatDepositCode(office.Seq, store.Seq, topup.Seq)
		return repo.UpdateDepositCode(ctx, topup.ID, topup.DepositCode)
	})
	if err != nil {
		return nil, err
	}

	return &RequestResult{
		Topup: topup,
		Guide: DepositGuide{
			Bank:          office.DepositBank,
			Account:       office.DepositAccount,
			AccountHolder: office.DepositHolder,
		},
	}, nil
}

func (s *service) ApplyPaid(ctx context.Context, topupID uuid.UUID, memo string, refType enums.LedgerRefType) (ApplyPaidResult, error) {
	var result ApplyPaidResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.ApplyPaidInTx(ctx, tx, topupID, memo, refType)
		return err
	})
	return result, err
}

// ApplyPaidInTx settles a top-up inside the caller's transaction: flip
// requested to paid, credit the wallet, append the charge entry. A replay
// against an already-paid top-up succeeds without a second credit.
func (s *service) ApplyPaidInTx(ctx context.Context, tx *gorm.DB, topupID uuid.UUID, memo string, refType enums.LedgerRefType) (ApplyPaidResult, error) {
	if tx == nil {
		return ApplyPaidResult{}, fmt.Errorf("transaction required")
	}
	if topupID == uuid.Nil {
		return ApplyPaidResult{}, apperrors.New(apperrors.CodeValidation, "topup id is required")
	}
	if refType != enums.LedgerRefTypeTopup && refType != enums.LedgerRefTypeBank {
		return ApplyPaidResult{}, fmt.Errorf("unsupported settlement ref type %q", refType)
	}

	repo := s.repo.WithTx(tx)
	topup, err := repo.FindByID(ctx, topupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApplyPaidResult{}, apperrors.New(apperrors.CodeNotFound, "top-up not found")
		}
		return ApplyPaidResult{}, err
	}

	flipped, err := repo.MarkPaidIfRequested(ctx, topupID, time.Now())
	if err != nil {
		return ApplyPaidResult{}, err
	}
	if !flipped {
		current, err := repo.FindByID(ctx, topupID)
		if err != nil {
			return ApplyPaidResult{}, err
		}
		if current.Status == enums.TopupStatusPaid {
			balance, err := s.wallets.BalanceIn(ctx, tx, current.StoreID)
			if err != nil {
				return ApplyPaidResult{}, err
			}
			return ApplyPaidResult{
				TopupID:     topupID,
				StoreID:     current.StoreID,
				Balance:     balance,
				AlreadyPaid: true,
			}, nil
		}
		return ApplyPaidResult{}, apperrors.New(apperrors.CodeStateConflict,
			fmt.Sprintf("top-up in state %q cannot be settled", current.Status))
	}

	balance, err := s.wallets.Credit(ctx, tx, topup.StoreID, topup.Amount)
	if err != nil {
		return ApplyPaidResult{}, err
	}
	if _, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
		StoreID: topup.StoreID,
		Type:    enums.LedgerEntryTypeCharge,
		Amount:  topup.Amount,
		RefType: refType,
		RefID:   topupID,
		Memo:    memo,
	}); err != nil {
		return ApplyPaidResult{}, err
	}

	s.metrics.IncTopupApplied(string(refType))
	return ApplyPaidResult{
		TopupID: topupID,
		StoreID: topup.StoreID,
		Balance: balance,
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.TopupRequest, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "topup id is required")
	}
	topup, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "top-up not found")
		}
		return nil, err
	}
	return topup, nil
}

func (s *service) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.TopupRequest, error) {
	if storeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id is required")
	}
	return s.repo.ListByStore(ctx, storeID, pagination.NormalizeLimit(limit))
}
