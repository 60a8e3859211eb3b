package invites

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
)

// Repository manages persistence for invite codes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, invite *models.InviteCode) error
	ListOpenByHeadOffice(ctx context.Context, headOfficeID uuid.UUID) ([]models.InviteCode, error)
	MarkUsedIfUnused(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an invite repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, invite *models.InviteCode) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *repository) ListOpenByHeadOffice(ctx context.Context, headOfficeID uuid.UUID) ([]models.InviteCode, error) {
	var invites []models.InviteCode
	if err := r.db.WithContext(ctx).
		Where("head_office_id = ? AND used_at IS NULL", headOfficeID).
		Find(&invites).Error; err != nil {
		return nil, err
	}
	return invites, nil
}

// MarkUsedIfUnused claims the invite with a conditional update so two
// concurrent joins cannot both redeem it.
func (r *repository) MarkUsedIfUnused(ctx context.Context, id uuid.UUID, usedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.InviteCode{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", usedAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
