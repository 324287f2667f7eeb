package models

import "time"

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"

	SupplierAvailable = "available"
	SupplierBusy      = "busy"
)

type Supplier struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	LoginID    string    `gorm:"type:varchar(100);unique;not null" json:"login_id"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Attendance string    `gorm:"type:varchar(20);not null;default:'absent'" json:"attendance"`
	Status     string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Version    int64     `gorm:"not null;default:0" json:"version"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// IsAssignable -> hanya supplier yang hadir dan available yang boleh
// menerima assignment meja baru.
func (s *Supplier) IsAssignable() bool {
	return s.Attendance == AttendancePresent && s.Status == SupplierAvailable
}

// SupplierNotification adalah record assignment meja -> supplier.
// Dibuat satu transaksi dengan flip status supplier ke busy.
type SupplierNotification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SupplierID   uint      `gorm:"not null;index" json:"supplier_id"`
	Supplier     Supplier  `gorm:"foreignKey:SupplierID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	SupplierName string    `gorm:"type:varchar(255);not null" json:"supplier_name"`
	TableNumber  int       `gorm:"not null;index" json:"table_number"`
	OrderIDs     string    `gorm:"type:text;not null" json:"order_ids"`
	ItemSummary  string    `gorm:"type:text" json:"item_summary"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
}

// AttendanceReset mencatat tanggal reset absensi harian.
// Unique index di ResetDate menjamin reset hanya terjadi sekali per hari
// walaupun ada dua instance scheduler yang jalan bersamaan.
type AttendanceReset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ResetDate string    `gorm:"type:varchar(10);uniqueIndex;not null" json:"reset_date"` // YYYY-MM-DD
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
