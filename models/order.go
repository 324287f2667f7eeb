package models

import (
	"time"
)

// Status order: pending -> assigned -> completed -> paid.
// Cancel hanya boleh saat masih pending (hard delete).
const (
	OrderStatusPending   = "pending"
	OrderStatusAssigned  = "assigned"
	OrderStatusCompleted = "completed"
	OrderStatusPaid      = "paid"
)

type Order struct {
	ID                  uint         `gorm:"primaryKey" json:"id"`
	TableNumber         int          `gorm:"not null;index" json:"table_number"`
	FoodName            string       `gorm:"type:varchar(100);not null" json:"food_name"`
	BasePrice           float64      `gorm:"type:decimal(10,2);not null" json:"base_price"`
	AddOns              []OrderAddOn `gorm:"foreignKey:OrderID" json:"add_ons"`
	SpecialInstructions string       `gorm:"type:text" json:"special_instructions"`
	TotalPrice          float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_price"`
	Status              string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SupplierID          *uint        `gorm:"index" json:"supplier_id,omitempty"`
	Supplier            *Supplier    `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Version             int64        `gorm:"not null;default:0" json:"version"`
	CreatedAt           time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time    `gorm:"not null" json:"updated_at"`
}

type OrderAddOn struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order    Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name     string  `gorm:"type:varchar(100);not null" json:"name"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int     `gorm:"not null;default:1" json:"quantity"`
}

// ComputeTotal menghitung total = base price + sum(add-on price * qty).
// Total dari client tidak dipercaya, selalu dihitung ulang di server.
func (o *Order) ComputeTotal() float64 {
	total := o.BasePrice
	for _, a := range o.AddOns {
		total += a.Price * float64(a.Quantity)
	}
	return total
}

// IsActive -> order masih tampil di active set (belum masuk projection)
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusAssigned
}
