package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// HeadOffice is a franchise brand: the tenant that owns a catalog and a
// set of member stores. Deposit* fields describe the bank account stores
// transfer wallet funding into; they are surfaced with every top-up guide.
// Seq is a database-assigned sequence used when composing deposit codes.
type HeadOffice struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Seq            int64                  `gorm:"column:seq;default:null"`
	Name           string                 `gorm:"column:name;not null"`
	Status         enums.HeadOfficeStatus `gorm:"column:status;not null;default:'active'"`
	DepositBank    string                 `gorm:"column:deposit_bank"`
	DepositAccount string                 `gorm:"column:deposit_account"`
	DepositHolder  string                 `gorm:"column:deposit_holder"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
