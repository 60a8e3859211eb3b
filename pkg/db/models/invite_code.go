package models

import (
	"time"

	"github.com/google/uuid"
)

// InviteCode gates store joins for a head office. Only the Argon2id hash of
// the human-readable code is stored; the plaintext is shown once at issue
// time. A code is single-use and optionally expiring.
type InviteCode struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HeadOfficeID uuid.UUID  `gorm:"column:head_office_id;type:uuid;not null"`
	CodeHash     string     `gorm:"column:code_hash;not null"`
	ExpiresAt    *time.Time `gorm:"column:expires_at"`
	UsedAt       *time.Time `gorm:"column:used_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
