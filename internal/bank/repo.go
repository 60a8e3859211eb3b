package bank

import (
	"context"

	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
)

// Repository manages persistence for bank transaction records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.BankTransaction) error
	FindByExternalID(ctx context.Context, externalTxID string) (*models.BankTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a bank transaction repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.BankTransaction) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByExternalID(ctx context.Context, externalTxID string) (*models.BankTransaction, error) {
	var record models.BankTransaction
	if err := r.db.WithContext(ctx).
		Where("external_tx_id = ?", externalTxID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
