package controllers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/events"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// PlaceOrder -> customer membuat order baru (status='pending')
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	type AddOnReq struct {
		Name     string  `json:"name" binding:"required"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}

	type ReqBody struct {
		FoodName            string     `json:"food_name" binding:"required"`
		BasePrice           float64    `json:"base_price" binding:"required"`
		AddOns              []AddOnReq `json:"add_ons"`
		SpecialInstructions string     `json:"special_instructions"`
		TotalPrice          float64    `json:"total_price"`
		TableNumber         int        `json:"table_number" binding:"required"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.TableNumber <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table number"))
		return
	}

	order := models.Order{
		TableNumber:         body.TableNumber,
		FoodName:            body.FoodName,
		BasePrice:           body.BasePrice,
		SpecialInstructions: body.SpecialInstructions,
		Status:              models.OrderStatusPending,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
	for _, a := range body.AddOns {
		qty := a.Quantity
		if qty <= 0 {
			qty = 1
		}
		order.AddOns = append(order.AddOns, models.OrderAddOn{
			Name:     a.Name,
			Price:    a.Price,
			Quantity: qty,
		})
	}

	// Total dihitung ulang di server; total dari client hanya dicek
	order.TotalPrice = order.ComputeTotal()
	if body.TotalPrice != 0 && math.Abs(body.TotalPrice-order.TotalPrice) > 0.009 {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("total_price mismatch: expected %.2f", order.TotalPrice))
		return
	}

	if err := oc.DB.Create(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(order)
	utils.InfoLogger.Printf("New order #%d for table %d (total=%s)",
		order.ID, order.TableNumber, utils.FormatCurrencyIDR(order.TotalPrice))

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetAllOrders -> list seluruh order beserta add-ons (staff)
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("AddOns").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetActiveOrders -> active set (pending + assigned)
func (oc *OrderController) GetActiveOrders(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("AddOns").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusAssigned}).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Active orders", orders)
}

// GetOrderByID -> detail 1 order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("AddOns").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CancelOrder -> hapus order yang masih pending.
// Order yang sudah di-assign/selesai tidak boleh dibatalkan.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("order not found"))
		return
	}

	if order.Status != models.OrderStatusPending {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order is %s, only pending orders can be cancelled", order.Status))
		return
	}

	tx := oc.DB.Begin()
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderAddOn{}).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderCancelled(order.ID, order.TableNumber)
	utils.InfoLogger.Printf("Order #%d cancelled (table %d)", order.ID, order.TableNumber)

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{"order_id": order.ID})
}

// TableSummary adalah hasil grouping active set per meja.
// Derived, tidak pernah disimpan.
type TableSummary struct {
	TableNumber int     `json:"table_number"`
	OrderCount  int64   `json:"order_count"`
	TotalAmount float64 `json:"total_amount"`
}

// GetTableSummary -> group active orders per nomor meja
func (oc *OrderController) GetTableSummary(c *gin.Context) {
	var summaries []TableSummary
	if err := oc.DB.Model(&models.Order{}).
		Select("table_number, COUNT(id) as order_count, SUM(total_price) as total_amount").
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusAssigned}).
		Group("table_number").
		Order("table_number asc").
		Scan(&summaries).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table summary", summaries)
}

// MarkTablePaid -> cashier menandai seluruh completed order satu meja
// sebagai paid. Satu transaksi; meja tanpa order -> no-op.
func (oc *OrderController) MarkTablePaid(c *gin.Context) {
	tableStr := c.Param("table_number")
	tableNumber, err := strconv.Atoi(tableStr)
	if err != nil || tableNumber <= 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid table number"))
		return
	}

	now := time.Now()
	var count int64

	txErr := oc.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CompletedOrder{}).
			Where("table_number = ? AND status = ?", tableNumber, models.OrderStatusCompleted).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusPaid,
				"paid_at":    now,
				"updated_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		count = res.RowsAffected
		return nil
	})
	if txErr != nil {
		utils.RespondError(c, http.StatusInternalServerError, txErr)
		return
	}

	if count > 0 {
		events.BroadcastTablePaid(tableNumber, count)
		utils.InfoLogger.Printf("Table %d marked paid (%d orders)", tableNumber, count)
	}

	utils.RespondJSON(c, http.StatusOK, "Table marked as paid", gin.H{
		"table_number": tableNumber,
		"orders_paid":  count,
	})
}
