package controllers

import (
	"net/http"
	"time"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/bank"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

type bankIngestRequest struct {
	ExternalTxID  string `json:"external_tx_id" validate:"required,max=200"`
	Amount        int64  `json:"amount" validate:"required,gt=0"`
	Memo          string `json:"memo,omitempty" validate:"omitempty,max=500"`
	DepositorName string `json:"depositor_name,omitempty" validate:"omitempty,max=120"`
	OccurredAt    string `json:"occurred_at,omitempty"`
}

// AdminBankIngest feeds one bank transfer event into matching. Re-sending
// an event with a known external_tx_id is a no-op success.
func AdminBankIngest(svc bank.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "bank service unavailable"))
			return
		}

		var req bankIngestRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		occurredAt := time.Now().UTC()
		if req.OccurredAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.OccurredAt)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "occurred_at must be RFC3339"))
				return
			}
			occurredAt = parsed
		}

		result, err := svc.Ingest(r.Context(), bank.IngestInput{
			ExternalTxID:  req.ExternalTxID,
			Amount:        req.Amount,
			Memo:          req.Memo,
			DepositorName: req.DepositorName,
			OccurredAt:    occurredAt,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
