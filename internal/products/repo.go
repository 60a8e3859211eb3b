package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
)

// Repository manages persistence for catalog products.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByHeadOffice(ctx context.Context, headOfficeID uuid.UUID, statuses []enums.ProductStatus, limit int) ([]models.Product, error)
	FindForHeadOffice(ctx context.Context, headOfficeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a product repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) ListByHeadOffice(ctx context.Context, headOfficeID uuid.UUID, statuses []enums.ProductStatus, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Where("head_office_id = ?", headOfficeID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var products []models.Product
	if err := q.Order("name ASC").Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindForHeadOffice resolves the requested ids within one head office,
// active products only. Sold-out and inactive products are not orderable,
// so they resolve as absent.
func (r *repository) FindForHeadOffice(ctx context.Context, headOfficeID uuid.UUID, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("head_office_id = ? AND status = ? AND id IN ?", headOfficeID, enums.ProductStatusActive, ids).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}
