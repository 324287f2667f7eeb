package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/events"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

// AttendanceScheduler mereset absensi seluruh supplier ke 'present'
// sekali per hari kalender, di sisi server. Guard-nya adalah row
// AttendanceReset dengan unique index di tanggal, jadi dua instance
// yang jalan bersamaan tetap hanya menghasilkan satu reset.
type AttendanceScheduler struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewAttendanceScheduler(db *gorm.DB) *AttendanceScheduler {
	return &AttendanceScheduler{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 60 * time.Second,
	}
}

func (as *AttendanceScheduler) Start() {
	go func() {
		ticker := time.NewTicker(as.Interval)
		defer ticker.Stop()

		// Jalankan sekali di awal, untuk kasus server baru start
		// setelah tengah malam
		as.checkReset()

		for {
			select {
			case <-ticker.C:
				as.checkReset()
			case <-as.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Attendance scheduler started")
}

func (as *AttendanceScheduler) Stop() {
	close(as.StopChan)
}

func (as *AttendanceScheduler) checkReset() {
	today := time.Now().Format("2006-01-02")

	var existing models.AttendanceReset
	if err := as.DB.Where("reset_date = ?", today).First(&existing).Error; err == nil {
		// Sudah di-reset hari ini
		return
	}

	var resetCount int64
	txErr := as.DB.Transaction(func(tx *gorm.DB) error {
		// Insert dulu; unique index menolak kalau instance lain menang
		if err := tx.Create(&models.AttendanceReset{
			ResetDate: today,
			CreatedAt: time.Now(),
		}).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Supplier{}).
			Where("attendance = ?", models.AttendanceAbsent).
			Updates(map[string]interface{}{
				"attendance": models.AttendancePresent,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		resetCount = res.RowsAffected
		return nil
	})
	if txErr != nil {
		// Kemungkinan besar kalah race dengan instance lain; bukan error fatal
		utils.ErrorLogger.Printf("Attendance reset for %s skipped: %v", today, txErr)
		return
	}

	utils.InfoLogger.Printf("Daily attendance reset for %s (%d suppliers)", today, resetCount)
	events.BroadcastStaffNotification("Absensi supplier sudah di-reset untuk hari ini")
}
