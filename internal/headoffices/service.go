package headoffices

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

// Service exposes head office administration.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.HeadOffice, error)
	Get(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error)
	List(ctx context.Context, limit int) ([]models.HeadOffice, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.HeadOffice, error)
}

// CreateInput carries a new head office and its deposit guide.
type CreateInput struct {
	Name           string
	DepositBank    string
	DepositAccount string
	DepositHolder  string
}

// UpdateInput applies a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name           *string
	Status         *enums.HeadOfficeStatus
	DepositBank    *string
	DepositAccount *string
	DepositHolder  *string
}

type service struct {
	repo Repository
}

// NewService wires a head office service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("head office repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.HeadOffice, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "head office name is required")
	}

	office := &models.HeadOffice{
		ID:             uuid.New(),
		Name:           name,
		Status:         enums.HeadOfficeStatusActive,
		DepositBank:    strings.TrimSpace(input.DepositBank),
		DepositAccount: strings.TrimSpace(input.DepositAccount),
		DepositHolder:  strings.TrimSpace(input.DepositHolder),
	}
	if err := s.repo.Create(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	office, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "head office not found")
		}
		return nil, err
	}
	return office, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.HeadOffice, error) {
	return s.repo.List(ctx, pagination.NormalizeLimit(limit))
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.HeadOffice, error) {
	office, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.New(apperrors.CodeValidation, "head office name cannot be empty")
		}
		office.Name = name
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid head office status %q", *input.Status))
		}
		office.Status = *input.Status
	}
	if input.DepositBank != nil {
		office.DepositBank = strings.TrimSpace(*input.DepositBank)
	}
	if input.DepositAccount != nil {
		office.DepositAccount = strings.TrimSpace(*input.DepositAccount)
	}
	if input.DepositHolder != nil {
		office.DepositHolder = strings.TrimSpace(*input.DepositHolder)
	}

	if err := s.repo.Update(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}
