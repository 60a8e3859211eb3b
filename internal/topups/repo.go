package topups

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
)

// Repository manages persistence for top-up requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, topup *models.TopupRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.TopupRequest, error)
	FindByDepositCode(ctx context.Context, code string) (*models.TopupRequest, error)
	UpdateDepositCode(ctx context.Context, id uuid.UUID, code string) error
	MarkPaidIfRequested(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error)
	ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.TopupRequest, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a top-up repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, topup *models.TopupRequest) error {
	return r.db.WithContext(ctx).Create(topup).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.TopupRequest, error) {
	var topup models.TopupRequest
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&topup).Error; err != nil {
		return nil, err
	}
	return &topup, nil
}

func (r *repository) FindByDepositCode(ctx context.Context, code string) (*models.TopupRequest, error) {
	var topup models.TopupRequest
	if err := r.db.WithContext(ctx).
		Where("deposit_code = ?", code).
		First(&topup).Error; err != nil {
		return nil, err
	}
	return &topup, nil
}

func (r *repository) UpdateDepositCode(ctx context.Context, id uuid.UUID, code string) error {
	return r.db.WithContext(ctx).
		Model(&models.TopupRequest{}).
		Where("id = ?", id).
		Update("deposit_code", code).Error
}

// MarkPaidIfRequested flips requested to paid with a conditional update so
// two concurrent settlements of the same top-up produce exactly one credit.
func (r *repository) MarkPaidIfRequested(ctx context.Context, id uuid.UUID, paidAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.TopupRequest{}).
		Where("id = ? AND status = ?", id, enums.TopupStatusRequested).
		Updates(map[string]any{
			"status":  enums.TopupStatusPaid,
			"paid_at": paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]models.TopupRequest, error) {
	var topups []models.TopupRequest
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("seq DESC").
		Limit(limit).
		Find(&topups).Error; err != nil {
		return nil, err
	}
	return topups, nil
}
