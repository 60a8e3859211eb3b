package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/franchisely/franchise-backend/pkg/enums"
)

// Order is a settled purchase by a store against its head office catalog.
// HeadOfficeID is denormalized from the store at creation time. Orders and
// their items are immutable once written.
type Order struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID         `gorm:"column:store_id;type:uuid;not null"`
	HeadOfficeID uuid.UUID         `gorm:"column:head_office_id;type:uuid;not null"`
	Status       enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	TotalAmount  int64             `gorm:"column:total_amount;not null"`
	Items        []OrderItem       `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// OrderItem is one line of an order with the unit price snapshotted at
// purchase time.
type OrderItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Qty       int       `gorm:"column:qty;not null"`
	UnitPrice int64     `gorm:"column:unit_price;not null"`
	LineTotal int64     `gorm:"column:line_total;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
