package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

func TestSweepReleasesIdleSupplier(t *testing.T) {
	utils.InitLogger()
	db := setupServiceTestDB(t)

	idle := models.Supplier{Name: "Budi", LoginID: "budi01", Password: "x",
		Attendance: models.AttendancePresent, Status: models.SupplierBusy}
	db.Create(&idle)

	working := models.Supplier{Name: "Sari", LoginID: "sari02", Password: "x",
		Attendance: models.AttendancePresent, Status: models.SupplierBusy}
	db.Create(&working)
	db.Create(&models.Order{TableNumber: 3, FoodName: "Noodles", BasePrice: 120,
		TotalPrice: 120, Status: models.OrderStatusAssigned, SupplierID: &working.ID})

	monitor := NewSupplierMonitor(db)
	monitor.sweep()

	// Supplier tanpa order assigned dilepas
	var released models.Supplier
	db.First(&released, idle.ID)
	assert.Equal(t, models.SupplierAvailable, released.Status)

	// Supplier yang masih punya order assigned tetap busy
	var stillBusy models.Supplier
	db.First(&stillBusy, working.ID)
	assert.Equal(t, models.SupplierBusy, stillBusy.Status)

	metrics := monitor.Metrics()
	assert.Equal(t, int64(1), metrics.SweepCount)
	assert.Equal(t, int64(1), metrics.ReleasedTotal)
	assert.False(t, metrics.LastSweep.IsZero())
}

func TestSweepIgnoresAvailableSuppliers(t *testing.T) {
	utils.InitLogger()
	db := setupServiceTestDB(t)

	s := models.Supplier{Name: "Budi", LoginID: "budi01", Password: "x",
		Attendance: models.AttendancePresent, Status: models.SupplierAvailable, Version: 7}
	db.Create(&s)

	monitor := NewSupplierMonitor(db)
	monitor.sweep()

	var after models.Supplier
	db.First(&after, s.ID)
	assert.Equal(t, int64(7), after.Version)

	metrics := monitor.Metrics()
	assert.Equal(t, int64(0), metrics.ReleasedTotal)
}
