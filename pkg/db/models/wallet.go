package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet caches the prepaid balance for one store. It is a materialized
// view of the ledger: balance equals the sum of all ledger entry amounts
// for the store at every commit point. The row is created lazily on the
// first credit or debit; an absent row reads as balance 0.
type Wallet struct {
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;primaryKey"`
	Balance   int64     `gorm:"column:balance;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
