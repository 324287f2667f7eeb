package models

import "time"

// CompletedOrder adalah snapshot order yang sudah selesai dimasak.
// Record ini immutable; refund hanya dicatat, tidak membalikkan record.
type CompletedOrder struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	OrderID        uint    `gorm:"uniqueIndex;not null" json:"order_id"`
	TableNumber    int     `gorm:"not null;index" json:"table_number"`
	SupplierID     *uint   `json:"supplier_id,omitempty"`
	SupplierName   string  `gorm:"type:varchar(255)" json:"supplier_name"`
	TotalAmount    float64 `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status         string  `gorm:"type:varchar(20);not null;default:'completed'" json:"status"` // completed | paid
	IdempotencyKey string  `gorm:"type:varchar(64);uniqueIndex;not null" json:"idempotency_key"`

	// Items detail disimpan dalam tabel terpisah
	Items []CompletedItem `gorm:"foreignKey:CompletedOrderID" json:"items"`

	Refunded    bool       `gorm:"not null;default:false" json:"refunded"`
	RefundedAt  *time.Time `json:"refunded_at,omitempty"`
	CompletedAt time.Time  `gorm:"not null;index" json:"completed_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

type CompletedItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CompletedOrderID uint           `gorm:"not null" json:"completed_order_id"`
	CompletedOrder   CompletedOrder `gorm:"-" json:"-"`

	Name      string  `gorm:"type:varchar(100);not null" json:"name"`
	UnitPrice float64 `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Subtotal  float64 `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	IsAddOn   bool    `gorm:"not null;default:false" json:"is_add_on"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
