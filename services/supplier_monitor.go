package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/events"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

// SupplierMetrics menyimpan metrik sweep monitor
type SupplierMetrics struct {
	SweepCount    int64
	ReleasedTotal int64
	LastSweep     time.Time
}

// SupplierMonitor melepas supplier yang statusnya masih busy padahal
// seluruh order assignment-nya sudah keluar dari active set. Tanpa
// sweep ini supplier bisa tersangkut busy selamanya kalau staff lupa
// menekan release.
type SupplierMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration

	metrics SupplierMetrics
	mutex   sync.Mutex
}

func NewSupplierMonitor(db *gorm.DB) *SupplierMonitor {
	return &SupplierMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 30 * time.Second,
	}
}

func (sm *SupplierMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.sweep()
			case <-sm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Supplier monitor started")
}

func (sm *SupplierMonitor) Stop() {
	close(sm.StopChan)
}

// Metrics mengembalikan snapshot metrik monitor
func (sm *SupplierMonitor) Metrics() SupplierMetrics {
	sm.mutex.Lock()
	defer sm.mutex.Unlock()
	return sm.metrics
}

func (sm *SupplierMonitor) sweep() {
	var suppliers []models.Supplier
	if err := sm.DB.Where("status = ?", models.SupplierBusy).Find(&suppliers).Error; err != nil {
		utils.ErrorLogger.Printf("Supplier sweep failed: %v", err)
		return
	}

	var released int64
	for _, supplier := range suppliers {
		var activeCount int64
		if err := sm.DB.Model(&models.Order{}).
			Where("supplier_id = ? AND status = ?", supplier.ID, models.OrderStatusAssigned).
			Count(&activeCount).Error; err != nil {
			continue
		}
		if activeCount > 0 {
			continue
		}

		// Version check: kalau ada assignment baru di antara query dan
		// update, update ini tidak kena
		res := sm.DB.Model(&models.Supplier{}).
			Where("id = ? AND version = ? AND status = ?",
				supplier.ID, supplier.Version, models.SupplierBusy).
			Updates(map[string]interface{}{
				"status":     models.SupplierAvailable,
				"version":    supplier.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil || res.RowsAffected == 0 {
			continue
		}

		supplier.Status = models.SupplierAvailable
		supplier.Version++
		events.BroadcastSupplierUpdate(supplier)
		utils.InfoLogger.Printf("Supplier %d auto-released (no assigned orders left)", supplier.ID)
		released++
	}

	sm.mutex.Lock()
	sm.metrics.SweepCount++
	sm.metrics.ReleasedTotal += released
	sm.metrics.LastSweep = time.Now()
	sm.mutex.Unlock()
}
