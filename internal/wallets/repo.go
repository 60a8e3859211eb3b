package wallets

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/franchisely/franchise-backend/pkg/db/models"
)

// Repository manages persistence for store wallets. Mutations are
// conditional single-statement updates so concurrent settlements never
// read a stale balance and write it back.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Find(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error)
	EnsureRow(ctx context.Context, storeID uuid.UUID) error
	CreditUpsert(ctx context.Context, storeID uuid.UUID, amount int64) error
	DebitIfSufficient(ctx context.Context, storeID uuid.UUID, amount int64) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Find(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (r *repository) EnsureRow(ctx context.Context, storeID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}},
			DoNothing: true,
		}).
		Create(&models.Wallet{StoreID: storeID}).Error
}

func (r *repository) CreditUpsert(ctx context.Context, storeID uuid.UUID, amount int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "store_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"balance": gorm.Expr("wallets.balance + excluded.balance"),
			}),
		}).
		Create(&models.Wallet{StoreID: storeID, Balance: amount}).Error
}

func (r *repository) DebitIfSufficient(ctx context.Context, storeID uuid.UUID, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("store_id = ? AND balance >= ?", storeID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
