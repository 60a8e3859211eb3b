package orders

import (
	"context"
	"errors"
	"fmt"

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

// productPricer resolves current prices scoped to one head office. Ids
// from another tenant come back absent.
type productPricer interface {
	PricesForHeadOffice(ctx context.Context, headOfficeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

// walletFunds is the slice of the wallet layer settlement needs.
type walletFunds interface {
	Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount int64) (int64, error)
}

type ledgerAppender interface {
	Append(ctx context.Context, tx *gorm.DB, input ledger.AppendInput) (*models.LedgerEntry, error)
}

// Service owns order settlement: price resolution, the wallet debit and
// the order plus ledger writes commit as one unit or not at all.
type Service interface {
	PlaceOrder(ctx context.Context, storeID uuid.UUID, lines []LineInput) (*models.Order, error)
	List(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error)
	GetForStore(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error)
}

// LineInput is one requested order line.
type LineInput struct {
	ProductID uuid.UUID
	Qty       int
}

type service struct {
	repo    Repository
	db      txRunner
	stores  storeLoader
	pricer  productPricer
	wallets walletFunds
	ledger  ledgerAppender
	metrics *metrics.SettlementMetrics
}

// NewService wires an order service. The metrics collector may be nil.
func NewService(repo Repository, db txRunner, stores storeLoader, pricer productPricer, wallets walletFunds, ledgerSvc ledgerAppender, collectors *metrics.SettlementMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stores == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("product pricer required")
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
		pricer:  pricer,
		wallets: wallets,
		ledger:  ledgerSvc,
		metrics: collectors,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, storeID uuid.UUID, lines []LineInput) (*models.Order, error) {
	if storeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id is required")
	}
	if len(lines) == 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "order must contain at least one item")
	}
	productIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, apperrors.New(apperrors.CodeValidation, "product id is required on every item")
		}
		if line.Qty < 1 {
			return nil, apperrors.New(apperrors.CodeValidation,
				fmt.Sprintf("quantity for product %s must be at least 1", line.ProductID))
		}
		productIDs = append(productIDs, line.ProductID)
	}

	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, err
	}

	prices, err := s.pricer.PricesForHeadOffice(ctx, store.HeadOfficeID, productIDs)
	if err != nil {
		return nil, err
	}

	var total int64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		price, ok := prices[line.ProductID]
		if !ok {
			return nil, apperrors.ProductMismatch(line.ProductID.String())
		}
		lineTotal := price * int64(line.Qty)
		total += lineTotal
		items = append(items, models.OrderItem{
			ID:        uuid.New(),
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: price,
			LineTotal: lineTotal,
		})
	}

	order := &models.Order{
		ID:           uuid.New(),
		StoreID:      store.ID,
		HeadOfficeID: store.HeadOfficeID,
		Status:       enums.OrderStatusPending,
		TotalAmount:  total,
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.wallets.Debit(ctx, tx, store.ID, total); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		_, err := s.ledger.Append(ctx, tx, ledger.AppendInput{
			StoreID: store.ID,
			Type:    enums.LedgerEntryTypeOrderDebit,
			Amount:  -total,
			RefType: enums.LedgerRefTypeOrder,
			RefID:   order.ID,
			Memo:    fmt.Sprintf("order of %d item(s)", len(items)),
		})
		return err
	})
	if err != nil {
		if appErr := apperrors.As(err); appErr != nil && appErr.Code() == apperrors.CodeInsufficientFunds {
			s.metrics.IncOrderSettled("insufficient_funds")
		}
		return nil, err
	}

	s.metrics.IncOrderSettled("settled")
	return order, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, limit int) ([]models.Order, error) {
	if storeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id is required")
	}
	return s.repo.ListByStore(ctx, storeID, pagination.NormalizeLimit(limit))
}

// GetForStore scopes the lookup to the calling store; another tenant's
// order id reads as not found.
func (s *service) GetForStore(ctx context.Context, storeID, orderID uuid.UUID) (*models.Order, error) {
	if storeID == uuid.Nil || orderID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id and order id are required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
		}
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, apperrors.New(apperrors.CodeNotFound, "order not found")
	}
	return order, nil
}
