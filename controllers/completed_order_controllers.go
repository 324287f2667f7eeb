package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/events"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

type CompletedOrderController struct {
	DB *gorm.DB
}

func NewCompletedOrderController(db *gorm.DB) *CompletedOrderController {
	return &CompletedOrderController{DB: db}
}

// CompleteOrder -> supplier/staff menandai order selesai dimasak.
// Snapshot + hapus dari active set dilakukan satu transaksi. Request
// boleh membawa idempotency_key; double-click mengembalikan projection
// yang sudah ada, bukan insert kedua.
func (cc *CompletedOrderController) CompleteOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	orderID, _ := strconv.Atoi(idStr)

	var body struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	// Body opsional
	_ = c.ShouldBindJSON(&body)

	if body.IdempotencyKey != "" {
		var existing models.CompletedOrder
		if err := cc.DB.Preload("Items").
			Where("idempotency_key = ?", body.IdempotencyKey).
			First(&existing).Error; err == nil {
			utils.RespondJSON(c, http.StatusOK, "Order already completed", existing)
			return
		}
	}

	var order models.Order
	if err := cc.DB.Preload("AddOns").Preload("Supplier").First(&order, orderID).Error; err != nil {
		// Mungkin sudah selesai sebelumnya -> cek projection by order_id
		var existing models.CompletedOrder
		if err2 := cc.DB.Preload("Items").
			Where("order_id = ?", orderID).
			First(&existing).Error; err2 == nil {
			utils.RespondJSON(c, http.StatusOK, "Order already completed", existing)
			return
		}
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	if !order.IsActive() {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order is %s, cannot be completed", order.Status))
		return
	}

	key := body.IdempotencyKey
	if key == "" {
		key = uuid.NewString()
	}

	now := time.Now()
	completed := models.CompletedOrder{
		OrderID:        order.ID,
		TableNumber:    order.TableNumber,
		SupplierID:     order.SupplierID,
		TotalAmount:    order.TotalPrice,
		Status:         models.OrderStatusCompleted,
		IdempotencyKey: key,
		CompletedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.Supplier != nil {
		completed.SupplierName = order.Supplier.Name
	}

	completed.Items = append(completed.Items, models.CompletedItem{
		Name:      order.FoodName,
		UnitPrice: order.BasePrice,
		Quantity:  1,
		Subtotal:  order.BasePrice,
		CreatedAt: now,
	})
	for _, a := range order.AddOns {
		completed.Items = append(completed.Items, models.CompletedItem{
			Name:      a.Name,
			UnitPrice: a.Price,
			Quantity:  a.Quantity,
			Subtotal:  a.Price * float64(a.Quantity),
			IsAddOn:   true,
			CreatedAt: now,
		})
	}

	txErr := cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&completed).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderAddOn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order).Error
	})
	if txErr != nil {
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	events.BroadcastOrderCompleted(completed)
	events.BroadcastStaffNotification(
		fmt.Sprintf("Order #%d meja %d selesai (%s)",
			order.ID, order.TableNumber, utils.FormatCurrencyIDR(completed.TotalAmount)))
	utils.InfoLogger.Printf("Order #%d completed (table %d, supplier=%s)",
		order.ID, order.TableNumber, completed.SupplierName)

	utils.RespondJSON(c, http.StatusCreated, "Order completed", completed)
}

// GetCompletedOrders -> list projection dengan pagination & sorting
func (cc *CompletedOrderController) GetCompletedOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sortBy := c.DefaultQuery("sortBy", "completed_at")
	sortOrder := c.DefaultQuery("sortOrder", "desc")

	// Whitelist kolom sorting, hindari injection lewat query param
	switch sortBy {
	case "completed_at", "table_number", "total_amount", "supplier_name":
	default:
		sortBy = "completed_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	var total int64
	cc.DB.Model(&models.CompletedOrder{}).Count(&total)

	var completed []models.CompletedOrder
	if err := cc.DB.Preload("Items").
		Order(sortBy + " " + sortOrder).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&completed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Completed orders", gin.H{
		"items":       completed,
		"page":        page,
		"limit":       limit,
		"total":       total,
		"total_pages": (total + int64(limit) - 1) / int64(limit),
	})
}

// GetCompletedOrderByID -> detail 1 projection
func (cc *CompletedOrderController) GetCompletedOrderByID(c *gin.Context) {
	idStr := c.Param("completed_id")
	id, _ := strconv.Atoi(idStr)

	var completed models.CompletedOrder
	if err := cc.DB.Preload("Items").First(&completed, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Completed order detail", completed)
}

// RefundCompletedOrder -> refund hanya dicatat, record tidak dibalikkan
func (cc *CompletedOrderController) RefundCompletedOrder(c *gin.Context) {
	roleInterface, _ := c.Get("role")
	if roleInterface != "admin" && roleInterface != "cashier" {
		utils.RespondError(c, http.StatusForbidden, ErrNoPermission)
		return
	}

	idStr := c.Param("completed_id")
	id, _ := strconv.Atoi(idStr)

	var completed models.CompletedOrder
	if err := cc.DB.First(&completed, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if completed.Refunded {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("order already refunded"))
		return
	}

	now := time.Now()
	completed.Refunded = true
	completed.RefundedAt = &now
	completed.UpdatedAt = now
	if err := cc.DB.Save(&completed).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Refund logged for completed order %d (order #%d, %s)",
		completed.ID, completed.OrderID, utils.FormatCurrencyIDR(completed.TotalAmount))

	utils.RespondJSON(c, http.StatusOK, "Refund logged", completed)
}

// GetDailySummary -> statistik hari ini untuk dashboard cashier
func (cc *CompletedOrderController) GetDailySummary(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var count int64
	var revenue float64

	cc.DB.Model(&models.CompletedOrder{}).
		Where("completed_at >= ?", startOfDay).
		Count(&count)
	cc.DB.Model(&models.CompletedOrder{}).
		Where("completed_at >= ? AND refunded = ?", startOfDay, false).
		Select("COALESCE(SUM(total_amount), 0)").
		Row().Scan(&revenue)

	var paidCount int64
	cc.DB.Model(&models.CompletedOrder{}).
		Where("completed_at >= ? AND status = ?", startOfDay, models.OrderStatusPaid).
		Count(&paidCount)

	utils.RespondJSON(c, http.StatusOK, "Daily summary", gin.H{
		"completed_orders":  count,
		"paid_orders":       paidCount,
		"revenue":           revenue,
		"revenue_formatted": utils.FormatCurrencyIDR(revenue),
	})
}
