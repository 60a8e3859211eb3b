package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/pagination"
)

// Service exposes catalog administration and the price lookups the order
// settlement path depends on.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Catalog(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Product, error)
	ListAll(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	PricesForHeadOffice(ctx context.Context, headOfficeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error)
}

// CreateInput carries a new catalog product.
type CreateInput struct {
	HeadOfficeID uuid.UUID
	Name         string
	Price        int64
}

// UpdateInput applies a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name   *string
	Price  *int64
	Status *enums.ProductStatus
}

type service struct {
	repo Repository
}

// NewService wires a product service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.HeadOfficeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "product name is required")
	}
	if input.Price <= 0 {
		return nil, apperrors.New(apperrors.CodeValidation, "product price must be positive")
	}

	product := &models.Product{
		ID:           uuid.New(),
		HeadOfficeID: input.HeadOfficeID,
		Name:         name,
		Price:        input.Price,
		Status:       enums.ProductStatusActive,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "product not found")
		}
		return nil, err
	}
	return product, nil
}

// Catalog returns what a store browsing its head office sees. Inactive
// products are hidden; sold out ones stay visible.
func (s *service) Catalog(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Product, error) {
	if headOfficeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	statuses := []enums.ProductStatus{enums.ProductStatusActive, enums.ProductStatusSoldOut}
	return s.repo.ListByHeadOffice(ctx, headOfficeID, statuses, pagination.NormalizeLimit(limit))
}

func (s *service) ListAll(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Product, error) {
	if headOfficeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	return s.repo.ListByHeadOffice(ctx, headOfficeID, nil, pagination.NormalizeLimit(limit))
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, apperrors.New(apperrors.CodeValidation, "product price must be positive")
		}
		product.Price = *input.Price
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid product status %q", *input.Status))
		}
		product.Status = *input.Status
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// PricesForHeadOffice resolves current prices for the distinct requested
// product ids, scoped to one head office. Ids belonging to another tenant
// simply come back absent; the settlement path turns absence into a
// product mismatch.
func (s *service) PricesForHeadOffice(ctx context.Context, headOfficeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	if headOfficeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	found, err := s.repo.FindForHeadOffice(ctx, headOfficeID, distinct)
	if err != nil {
		return nil, err
	}
	prices := make(map[uuid.UUID]int64, len(found))
	for _, product := range found {
		prices[product.ID] = product.Price
	}
	return prices, nil
}
