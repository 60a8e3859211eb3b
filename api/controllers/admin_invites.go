package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/api/responses"
	"github.com/franchisely/franchise-backend/api/validators"
	"github.com/franchisely/franchise-backend/internal/invites"
	pkgerrors "github.com/franchisely/franchise-backend/pkg/errors"
	"github.com/franchisely/franchise-backend/pkg/logger"
)

type inviteIssueRequest struct {
	TTLHours int `json:"ttl_hours,omitempty" validate:"omitempty,gt=0,max=8760"`
}

type inviteIssueResponse struct {
	InviteID     uuid.UUID  `json:"invite_id"`
	HeadOfficeID uuid.UUID  `json:"head_office_id"`
	Code         string     `json:"code"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// AdminInviteIssue mints a single-use invite code for a head office. The
// plaintext code is returned once; only its hash is stored.
func AdminInviteIssue(svc invites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invite service unavailable"))
			return
		}

		officeID, err := parseURLID(r, "headOfficeId", "head office id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req inviteIssueRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ttl := time.Duration(req.TTLHours) * time.Hour
		invite, code, err := svc.Issue(r.Context(), officeID, ttl)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, inviteIssueResponse{
			InviteID:     invite.ID,
			HeadOfficeID: invite.HeadOfficeID,
			Code:         code,
			ExpiresAt:    invite.ExpiresAt,
		})
	}
}
