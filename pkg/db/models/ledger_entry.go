package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// LedgerEntry is an immutable, append-only record of one balance-affecting
// event. Credits carry a positive amount, debits a negative one. No code
// path updates or deletes a row; corrections are new offsetting entries.
// Seq is a database-assigned sequence used to return history newest first.
type LedgerEntry struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Seq       int64                 `gorm:"column:seq;default:null"`
	StoreID   uuid.UUID             `gorm:"column:store_id;type:uuid;not null"`
	Type      enums.LedgerEntryType `gorm:"column:type;not null"`
	Amount    int64                 `gorm:"column:amount;not null"`
	RefType   enums.LedgerRefType   `gorm:"column:ref_type;not null"`
	RefID     uuid.UUID             `gorm:"column:ref_id;type:uuid;not null"`
	Memo      string                `gorm:"column:memo"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}
