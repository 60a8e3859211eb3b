package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// Product is a catalog item owned by exactly one head office. Price is in
// integer currency units; orders snapshot it at purchase time, so later
// price changes never touch existing orders.
type Product struct {
	ID           uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	HeadOfficeID uuid.UUID           `gorm:"column:head_office_id;type:uuid;not null"`
	Name         string              `gorm:"column:name;not null"`
	Price        int64               `gorm:"column:price;not null"`
	Status       enums.ProductStatus `gorm:"column:status;not null;default:'active'"`
	CreatedAt    time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
