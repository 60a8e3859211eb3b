package headoffices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
)

// Repository manages persistence for head offices.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, office *models.HeadOffice) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error)
	FindBySeq(ctx context.Context, seq int64) (*models.HeadOffice, error)
	List(ctx context.Context, limit int) ([]models.HeadOffice, error)
	Update(ctx context.Context, office *models.HeadOffice) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a head office repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, office *models.HeadOffice) error {
	return r.db.WithContext(ctx).Create(office).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error) {
	var office models.HeadOffice
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&office).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *repository) FindBySeq(ctx context.Context, seq int64) (*models.HeadOffice, error) {
	var office models.HeadOffice
	if err := r.db.WithContext(ctx).
		Where("seq = ?", seq).
		First(&office).Error; err != nil {
		return nil, err
	}
	return &office, nil
}

func (r *repository) List(ctx context.Context, limit int) ([]models.HeadOffice, error) {
	var offices []models.HeadOffice
	if err := r.db.WithContext(ctx).
		Order("seq ASC").
		Limit(limit).
		Find(&offices).Error; err != nil {
		return nil, err
	}
	return offices, nil
}

func (r *repository) Update(ctx context.Context, office *models.HeadOffice) error {
	return r.db.WithContext(ctx).Save(office).Error
}
