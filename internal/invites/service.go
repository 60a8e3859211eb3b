package invites

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/pkg/db/models"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/security"
)

const codeRandomLength = 10

// officeLoader is the slice of the head office layer the invite flow needs.
type officeLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.HeadOffice, error)
	FindBySeq(ctx context.Context, seq int64) (*models.HeadOffice, error)
}

// Service issues and redeems invite codes. Only the Argon2id hash is
// persisted; the plaintext "{headOfficeSeq}-{random}" code is returned once
// at issue time. The seq prefix lets redemption scope the hash comparison
// to one head office's open invites.
type Service interface {
	Issue(ctx context.Context, headOfficeID uuid.UUID, ttl time.Duration) (*models.InviteCode, string, error)
	Redeem(ctx context.Context, tx *gorm.DB, code string, now time.Time) (*models.InviteCode, *models.HeadOffice, error)
}

type service struct {
	repo    Repository
	offices officeLoader
}

// NewService wires an invite service with its repository and head office loader.
func NewService(repo Repository, offices officeLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invite repository required")
	}
	if offices == nil {
		return nil, fmt.Errorf("head office loader required")
	}
	return &service{repo: repo, offices: offices}, nil
}

func (s *service) Issue(ctx context.Context, headOfficeID uuid.UUID, ttl time.Duration) (*models.InviteCode, string, error) {
	if headOfficeID == uuid.Nil {
		return nil, "", apperrors.New(apperrors.CodeValidation, "head office id is required")
	}
	office, err := s.offices.FindByID(ctx, headOfficeID)
	if err != nil {
		return nil, "", err
	}

	random, err := security.GenerateCode(codeRandomLength)
	if err != nil {
		return nil, "", err
	}
	plaintext := fmt.Sprintf("%d-%s", office.Seq, random)
	hash, err := security.HashCode(plaintext)
	if err != nil {
		return nil, "", err
	}

	invite := &models.InviteCode{
		ID:           uuid.New(),
		HeadOfficeID: headOfficeID,
		CodeHash:     hash,
	}
	if ttl > 0 {
		expires := time.Now().Add(ttl)
		invite.ExpiresAt = &expires
	}
	if err := s.repo.Create(ctx, invite); err != nil {
		return nil, "", err
	}
	return invite, plaintext, nil
}

// Redeem validates and claims an invite inside the caller's transaction.
// All failure modes return the same unauthorized error so a caller cannot
// probe which codes exist.
func (s *service) Redeem(ctx context.Context, tx *gorm.DB, code string, now time.Time) (*models.InviteCode, *models.HeadOffice, error) {
	if tx == nil {
		return nil, nil, fmt.Errorf("transaction required")
	}
	seq, ok := parseOfficeSeq(code)
	if !ok {
		return nil, nil, invalidInvite()
	}
	office, err := s.offices.FindBySeq(ctx, seq)
	if err != nil {
		return nil, nil, invalidInvite()
	}

	repo := s.repo.WithTx(tx)
	open, err := repo.ListOpenByHeadOffice(ctx, office.ID)
	if err != nil {
		return nil, nil, err
	}
	for i := range open {
		match, err := security.VerifyCode(code, open[i].CodeHash)
		if err != nil || !match {
			continue
		}
		if open[i].ExpiresAt != nil && now.After(*open[i].ExpiresAt) {
			return nil, nil, invalidInvite()
		}
		claimed, err := repo.MarkUsedIfUnused(ctx, open[i].ID, now)
		if err != nil {
			return nil, nil, err
		}
		if !claimed {
			return nil, nil, invalidInvite()
		}
		open[i].UsedAt = &now
		return &open[i], office, nil
	}
	return nil, nil, invalidInvite()
}

func invalidInvite() error {
	return apperrors.New(apperrors.CodeUnauthorized, "invalid invite code")
}

func parseOfficeSeq(code string) (int64, bool) {
	head, _, found := strings.Cut(strings.TrimSpace(code), "-")
	if !found {
		return 0, false
	}
	seq, err := strconv.ParseInt(head, 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
