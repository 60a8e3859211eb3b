package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// TopupRequest is a request to fund a store wallet via bank transfer.
// DepositCode is the generated token a depositor embeds in their transfer
// memo; it is derived from the head office, store and topup sequences, so
// uniqueness rides on the topup sequence being unique.
type TopupRequest struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Seq           int64             `gorm:"column:seq;default:null"`
	StoreID       uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	Amount        int64             `gorm:"column:amount;not null"`
	DepositorName string            `gorm:"column:depositor_name"`
	Status        enums.TopupStatus `gorm:"column:status;not null;default:'requested'"`
	DepositCode   string            `gorm:"column:deposit_code;uniqueIndex;default:null"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	PaidAt        *time.Time        `gorm:"column:paid_at"`
}
