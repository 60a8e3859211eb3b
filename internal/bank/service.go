package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/franchisely/franchise-backend/internal/topups"
	"github.com/franchisely/franchise-backend/pkg/db"
	"github.com/franchisely/franchise-backend/pkg/db/models"
	"github.com/franchisely/franchise-backend/pkg/enums"
	apperrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// topupSettler is the slice of the top-up layer ingestion settles through.
type topupSettler interface {
	ApplyPaidInTx(ctx context.Context, tx *gorm.DB, topupID uuid.UUID, memo string, refType enums.LedgerRefType) (topups.ApplyPaidResult, error)
}

// Service ingests incoming bank transfer events. Dedup record, match and
// wallet credit commit in one transaction: a crash can never leave an
// event recorded but uncredited, or credited but unrecorded.
type Service interface {
	Ingest(ctx context.Context, input IngestInput) (IngestResult, error)
}

// IngestInput is one upstream transfer event.
type IngestInput struct {
	ExternalTxID  string
	Amount        int64
	Memo          string
	DepositorName string
	OccurredAt    time.Time
}

// IngestResult reports what the event resolved to. Duplicate means the
// external id was seen before and nothing changed.
type IngestResult struct {
	Duplicate   bool       `json:"duplicate"`
	Matched     bool       `json:"matched"`
	DepositCode string     `json:"deposit_code,omitempty"`
	TopupID     *uuid.UUID `json:"topup_id,omitempty"`
}

type service struct {
	repo      Repository
	db        txRunner
	topupRepo topups.Repository
	settler   topupSettler
	metrics   *metrics.SettlementMetrics
}

// NewService wires a bank ingestion service. The metrics collector may be nil.
func NewService(repo Repository, runner txRunner, topupRepo topups.Repository, settler topupSettler, collectors *metrics.SettlementMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bank repository required")
	}
	if runner == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if topupRepo == nil {
		return nil, fmt.Errorf("topup repository required")
	}
	if settler == nil {
		return nil, fmt.Errorf("topup settler required")
	}
	return &service{
		repo:      repo,
		db:        runner,
		topupRepo: topupRepo,
		settler:   settler,
		metrics:   collectors,
	}, nil
}

func (s *service) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	externalID := strings.TrimSpace(input.ExternalTxID)
	if externalID == "" {
		return IngestResult{}, apperrors.New(apperrors.CodeValidation, "external transaction id is required")
	}

	var result IngestResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindByExternalID(ctx, externalID)
		if err == nil {
			result = IngestResult{
				Duplicate: true,
				Matched:   existing.Matched,
				TopupID:   existing.MatchedTopupID,
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		record := &models.BankTransaction{
			ID:            uuid.New(),
			ExternalTxID:  externalID,
			Amount:        input.Amount,
			Memo:          input.Memo,
			DepositorName: strings.TrimSpace(input.DepositorName),
			OccurredAt:    input.OccurredAt,
		}

		code, parsed := topups.ParseDepositCode(input.Memo)
		if parsed {
			// Surface the parsed code even when nothing matches, so an
			// unmatched row can be reconciled from the response alone.
			result.DepositCode = code.String()
			topup, err := s.topupRepo.WithTx(tx).FindByDepositCode(ctx, code.String())
			switch {
			case err == nil && topup.Amount == input.Amount:
				settled, err := s.settler.ApplyPaidInTx(ctx, tx, topup.ID,
					fmt.Sprintf("bank transfer %s", externalID), enums.LedgerRefTypeBank)
				if err != nil {
					return err
				}
				record.Matched = true
				record.MatchedTopupID = &topup.ID
				record.MatchedStoreID = &settled.StoreID
				result = IngestResult{
					Matched:     true,
					DepositCode: code.String(),
					TopupID:     &topup.ID,
				}
			case err == nil:
				// Amount mismatch stays unmatched for manual review.
			case errors.Is(err, gorm.ErrRecordNotFound):
			default:
				return err
			}
		}

		return repo.Create(ctx, record)
	})
	if err != nil {
		// A concurrent delivery of the same external id wins the unique
		// index race; redelivery is a no-op success.
		if db.IsUniqueViolation(err, "external_tx_id") {
			s.metrics.IncBankTxIngested("duplicate")
			return IngestResult{Duplicate: true}, nil
		}
		return IngestResult{}, err
	}

	switch {
	case result.Duplicate:
		s.metrics.IncBankTxIngested("duplicate")
	case result.Matched:
		s.metrics.IncBankTxIngested("matched")
	default:
		s.metrics.IncBankTxIngested("unmatched")
	}
	return result, nil
}
