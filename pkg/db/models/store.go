package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// Store represents a franchise location belonging to one head office.
// AuthCodeHash holds the Argon2id hash of the bearer auth code issued at
// join time; the plaintext is never persisted. Stores are never hard-deleted
// while orders or ledger entries reference them.
type Store struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Seq          int64             `gorm:"column:seq;default:null"`
	HeadOfficeID uuid.UUID         `gorm:"column:head_office_id;type:uuid;not null"`
	Name         string            `gorm:"column:name;not null"`
	Status       enums.StoreStatus `gorm:"column:status;not null;default:'active'"`
	AuthCodeHash string            `gorm:"column:auth_code_hash;not null"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
