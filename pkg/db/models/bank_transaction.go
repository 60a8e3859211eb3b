package models

import (
	"time"

	"github.com/google/uuid"
)

// BankTransaction records one incoming bank transfer event. ExternalTxID is
// the upstream transaction id and is write-once: a redelivered event with a
// known external id is a no-op. Matched* fields are set when the memo's
// deposit code reconciled to a top-up request.
type BankTransaction struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalTxID   string     `gorm:"column:external_tx_id;not null;uniqueIndex"`
	Amount         int64      `gorm:"column:amount;not null"`
	Memo           string     `gorm:"column:memo"`
	DepositorName  string     `gorm:"column:depositor_name"`
	OccurredAt     time.Time  `gorm:"column:occurred_at"`
	Matched        bool       `gorm:"column:matched;not null;default:false"`
	MatchedTopupID *uuid.UUID `gorm:"column:matched_topup_id;type:uuid"`
	MatchedStoreID *uuid.UUID `gorm:"column:matched_store_id;type:uuid"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
}
