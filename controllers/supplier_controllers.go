package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/events"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

type SupplierController struct {
	DB *gorm.DB
}

func NewSupplierController(db *gorm.DB) *SupplierController {
	return &SupplierController{DB: db}
}

// GetAllSuppliers -> list seluruh supplier beserta status
func (sc *SupplierController) GetAllSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := sc.DB.Find(&suppliers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of suppliers", suppliers)
}

// CreateSupplier -> staff mendaftarkan supplier baru
func (sc *SupplierController) CreateSupplier(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		LoginID  string `json:"login_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	supplier := models.Supplier{
		Name:       req.Name,
		LoginID:    req.LoginID,
		Password:   string(hashed),
		Attendance: models.AttendanceAbsent,
		Status:     models.SupplierAvailable,
	}

	if err := sc.DB.Create(&supplier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New supplier registered: %s (login_id=%s)", supplier.Name, supplier.LoginID)
	utils.RespondJSON(c, http.StatusCreated, "Supplier created successfully", supplier)
}

// UpdateSupplier -> update attendance / availability / nama
func (sc *SupplierController) UpdateSupplier(c *gin.Context) {
	supplierID := c.Param("supplier_id")

	var body struct {
		Name       *string `json:"name"`
		Attendance *string `json:"attendance"` // present | absent
		Status     *string `json:"status"`     // available | busy
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, supplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != nil {
		supplier.Name = *body.Name
	}
	if body.Attendance != nil {
		if *body.Attendance != models.AttendancePresent && *body.Attendance != models.AttendanceAbsent {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid attendance value"))
			return
		}
		supplier.Attendance = *body.Attendance
	}
	if body.Status != nil {
		if *body.Status != models.SupplierAvailable && *body.Status != models.SupplierBusy {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid status value"))
			return
		}
		supplier.Status = *body.Status
	}

	supplier.Version++
	supplier.UpdatedAt = time.Now()
	if err := sc.DB.Save(&supplier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastSupplierUpdate(supplier)
	utils.InfoLogger.Printf("Supplier %d updated (attendance=%s, status=%s)",
		supplier.ID, supplier.Attendance, supplier.Status)

	utils.RespondJSON(c, http.StatusOK, "Supplier updated", supplier)
}

// DeleteSupplier -> menghapus supplier
func (sc *SupplierController) DeleteSupplier(c *gin.Context) {
	supplierID := c.Param("supplier_id")

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, supplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := sc.DB.Delete(&supplier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Supplier %d deleted", supplier.ID)
	utils.RespondJSON(c, http.StatusOK, "Supplier deleted", gin.H{"id": supplier.ID})
}

// AssignSupplier -> assign seluruh pending order satu meja ke supplier.
// Notifikasi + flip status busy dilakukan satu transaksi; flip memakai
// version check supaya dua staff tidak bisa assign supplier yang sama
// bersamaan (yang kalah dapat 409).
func (sc *SupplierController) AssignSupplier(c *gin.Context) {
	var req struct {
		SupplierID  uint `json:"supplier_id" binding:"required"`
		TableNumber int  `json:"table_number" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, req.SupplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("supplier not found"))
		return
	}

	if supplier.Attendance != models.AttendancePresent {
		utils.RespondError(c, http.StatusUnprocessableEntity,
			fmt.Errorf("supplier %s is absent today", supplier.Name))
		return
	}
	if supplier.Status != models.SupplierAvailable {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("supplier %s is busy", supplier.Name))
		return
	}

	var notif models.SupplierNotification

	txErr := sc.DB.Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Preload("AddOns").
			Where("table_number = ? AND status = ?", req.TableNumber, models.OrderStatusPending).
			Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return fmt.Errorf("no pending orders for table %d", req.TableNumber)
		}

		var orderIDs []string
		var items []string
		for _, o := range orders {
			orderIDs = append(orderIDs, strconv.FormatUint(uint64(o.ID), 10))
			items = append(items, fmt.Sprintf("%s x1", o.FoodName))
			for _, a := range o.AddOns {
				items = append(items, fmt.Sprintf("%s x%d", a.Name, a.Quantity))
			}

			res := tx.Model(&models.Order{}).
				Where("id = ? AND version = ?", o.ID, o.Version).
				Updates(map[string]interface{}{
					"status":      models.OrderStatusAssigned,
					"supplier_id": supplier.ID,
					"version":     o.Version + 1,
					"updated_at":  time.Now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrVersionConflict
			}
		}

		notif = models.SupplierNotification{
			SupplierID:   supplier.ID,
			SupplierName: supplier.Name,
			TableNumber:  req.TableNumber,
			OrderIDs:     strings.Join(orderIDs, ","),
			ItemSummary:  strings.Join(items, ", "),
			CreatedAt:    time.Now(),
		}
		if err := tx.Create(&notif).Error; err != nil {
			return err
		}

		// Flip availability dengan version check
		res := tx.Model(&models.Supplier{}).
			Where("id = ? AND version = ? AND status = ?",
				supplier.ID, supplier.Version, models.SupplierAvailable).
			Updates(map[string]interface{}{
				"status":     models.SupplierBusy,
				"version":    supplier.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}
		return nil
	})

	if txErr != nil {
		if txErr == ErrVersionConflict {
			utils.RespondError(c, http.StatusConflict, txErr)
			return
		}
		if strings.HasPrefix(txErr.Error(), "no pending orders") {
			utils.RespondError(c, http.StatusNotFound, txErr)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	supplier.Status = models.SupplierBusy
	supplier.Version++

	events.BroadcastAssignment(notif)
	events.BroadcastSupplierUpdate(supplier)
	events.BroadcastStaffNotification(
		fmt.Sprintf("Meja %d di-assign ke %s", req.TableNumber, supplier.Name))
	utils.InfoLogger.Printf("Table %d assigned to supplier %d (%s)",
		req.TableNumber, supplier.ID, supplier.Name)

	utils.RespondJSON(c, http.StatusOK, "Supplier assigned", notif)
}

// ReleaseSupplier -> flip busy -> available secara eksplisit
func (sc *SupplierController) ReleaseSupplier(c *gin.Context) {
	supplierID := c.Param("supplier_id")

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, supplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if supplier.Status != models.SupplierBusy {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("supplier is not busy"))
		return
	}

	supplier.Status = models.SupplierAvailable
	supplier.Version++
	supplier.UpdatedAt = time.Now()
	if err := sc.DB.Save(&supplier).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastSupplierUpdate(supplier)
	utils.InfoLogger.Printf("Supplier %d released", supplier.ID)
	utils.RespondJSON(c, http.StatusOK, "Supplier released", supplier)
}

// GetDeliveryStatus -> daftar order yang sedang di-assign ke supplier
func (sc *SupplierController) GetDeliveryStatus(c *gin.Context) {
	supplierID := c.Param("supplier_id")

	var supplier models.Supplier
	if err := sc.DB.First(&supplier, supplierID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var orders []models.Order
	if err := sc.DB.Preload("AddOns").
		Where("supplier_id = ? AND status = ?", supplier.ID, models.OrderStatusAssigned).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Assigned orders", gin.H{
		"supplier": supplier,
		"orders":   orders,
	})
}

// GetNotifications -> riwayat assignment (terbaru dulu)
func (sc *SupplierController) GetNotifications(c *gin.Context) {
	var notifs []models.SupplierNotification
	if err := sc.DB.Order("created_at desc").Limit(100).Find(&notifs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Assignment notifications", notifs)
}

// ErrVersionConflict dikembalikan saat optimistic lock gagal
var ErrVersionConflict = &CustomError{"record was modified by another request"}
