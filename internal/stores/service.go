package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/pagination"
	"github.com/franchisely/franchise-backend/pkg/security"
)

const authCodeRandomLength = 16

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// inviteRedeemer is the slice of the invite layer the join flow needs.
type inviteRedeemer interface {
	Redeem(ctx context.Context, tx *gorm.DB, code string, now time.Time) (*models.InviteCode, *models.HeadOffice, error)
}

// Service exposes store lifecycle operations. Join issues the bearer auth
// code: plaintext "{storeID}.{random}", only its Argon2id hash persisted.
// The id prefix lets VerifyCode resolve the row before comparing hashes.
type Service interface {
	Join(ctx context.Context, input JoinInput) (*models.Store, string, error)
	VerifyCode(ctx context.Context, presented string) (*models.Store, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Store, error)
	ListByHeadOffice(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Store, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.StoreStatus) (*models.Store, error)
}

// JoinInput carries an invite code redemption.
type JoinInput struct {
	InviteCode string
	Name       string
}

type service struct {
	repo    Repository
	db      txRunner
	invites inviteRedeemer
}

// NewService wires a store service with its repository, transaction runner
// and invite redeemer.
func NewService(repo Repository, db txRunner, invites inviteRedeemer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if db == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if invites == nil {
		return nil, fmt.Errorf("invite redeemer required")
	}
	return &service{repo: repo, db: db, invites: invites}, nil
}

func (s *service) Join(ctx context.Context, input JoinInput) (*models.Store, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", apperrors.New(apperrors.CodeValidation, "store name is required")
	}
	if strings.TrimSpace(input.InviteCode) == "" {
		return nil, "", apperrors.New(apperrors.CodeValidation, "invite code is required")
	}

	var store *models.Store
	var authCode string
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		_, office, err := s.invites.Redeem(ctx, tx, input.InviteCode, time.Now())
		if err != nil {
			return err
		}
		if office.Status != enums.HeadOfficeStatusActive {
			return apperrors.New(apperrors.CodeForbidden, "head office is not accepting new stores")
		}

		storeID := uuid.New()
		secret, err := security.GenerateCode(authCodeRandomLength)
		if err != nil {
			return err
		}
		authCode = fmt.Sprintf("%s.%s", storeID, secret)
		hash, err := security.HashCode(authCode)
		if err != nil {
			return err
		}

		store = &models.Store{
			ID:           storeID,
			HeadOfficeID: office.ID,
			Name:         name,
			Status:       enums.StoreStatusActive,
			AuthCodeHash: hash,
		}
		return s.repo.WithTx(tx).Create(ctx, store)
	})
	if err != nil {
		return nil, "", err
	}
	return store, authCode, nil
}

// VerifyCode resolves and authenticates the bearer code presented on
// X-Store-Code. All failure modes return the same unauthorized error.
func (s *service) VerifyCode(ctx context.Context, presented string) (*models.Store, error) {
	presented = strings.TrimSpace(presented)
	head, _, found := strings.Cut(presented, ".")
	if !found {
		return nil, invalidStoreCode()
	}
	storeID, err := uuid.Parse(head)
	if err != nil {
		return nil, invalidStoreCode()
	}

	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidStoreCode()
		}
		return nil, err
	}
	match, err := security.VerifyCode(presented, store.AuthCodeHash)
	if err != nil || !match {
		return nil, invalidStoreCode()
	}
	if store.Status != enums.StoreStatusActive {
		return nil, invalidStoreCode()
	}
	return store, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if id == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "store id is required")
	}
	store, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, err
	}
	return store, nil
}

func (s *service) ListByHeadOffice(ctx context.Context, headOfficeID uuid.UUID, limit int) ([]models.Store, error) {
	if headOfficeID == uuid.Nil {
		return nil, apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	return s.repo.ListByHeadOffice(ctx, headOfficeID, pagination.NormalizeLimit(limit))
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.StoreStatus) (*models.Store, error) {
	if !status.IsValid() {
		return nil, apperrors.New(apperrors.CodeValidation, fmt.Sprintf("invalid store status %q", status))
	}
	store, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	store.Status = status
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return store, nil
}

func invalidStoreCode() error {
	return apperrors.New(apperrors.CodeUnauthorized, "invalid store code")
}
