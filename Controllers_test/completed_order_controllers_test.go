package Controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/controllers"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

func setupCompletedRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	completedCtrl := controllers.NewCompletedOrderController(db)
	router.POST("/orders/:order_id/complete", completedCtrl.CompleteOrder)
	router.GET("/completed-orders", completedCtrl.GetCompletedOrders)
	router.GET("/completed-orders/summary", completedCtrl.GetDailySummary)
	router.GET("/completed-orders/:completed_id", completedCtrl.GetCompletedOrderByID)
	return router
}

func TestCompleteOrderCreatesProjection(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupCompletedRouter(db)

	supplier := seedSupplier(db, "Budi", "budi01", models.AttendancePresent, models.SupplierBusy)
	order := models.Order{
		TableNumber: 3, FoodName: "Noodles", BasePrice: 120, TotalPrice: 160,
		Status: models.OrderStatusAssigned, SupplierID: &supplier.ID,
		AddOns: []models.OrderAddOn{{Name: "Egg", Price: 20, Quantity: 2}},
	}
	db.Create(&order)

	w := postJSON(t, router, "/orders/"+strconv.Itoa(int(order.ID))+"/complete", nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 160.0, data["total_amount"].(float64))
	assert.Equal(t, 3.0, data["table_number"].(float64))
	assert.Equal(t, "Budi", data["supplier_name"])
	items := data["items"].([]interface{})
	assert.Len(t, items, 2)

	// Order asli hilang dari active set
	var activeCount int64
	db.Model(&models.Order{}).Count(&activeCount)
	assert.Equal(t, int64(0), activeCount)

	var addOnCount int64
	db.Model(&models.OrderAddOn{}).Count(&addOnCount)
	assert.Equal(t, int64(0), addOnCount)
}

func TestCompleteOrderIdempotent(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupCompletedRouter(db)

	order := models.Order{TableNumber: 4, FoodName: "Fried Rice", BasePrice: 80,
		TotalPrice: 80, Status: models.OrderStatusPending}
	db.Create(&order)

	url := "/orders/" + strconv.Itoa(int(order.ID)) + "/complete"
	payload := map[string]interface{}{"idempotency_key": "click-123"}

	w := postJSON(t, router, url, payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Double-click: key sama -> projection yang sama, bukan insert kedua
	w = postJSON(t, router, url, payload)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.CompletedOrder{}).Count(&count)
	assert.Equal(t, int64(1), count)

	// Tanpa key, order yang sudah selesai juga tidak diduplikasi
	w = postJSON(t, router, url, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	db.Model(&models.CompletedOrder{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCompleteUnknownOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupCompletedRouter(db)

	w := postJSON(t, router, "/orders/555/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCompletedOrdersPagination(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupCompletedRouter(db)

	for i := 0; i < 25; i++ {
		db.Create(&models.CompletedOrder{
			OrderID: uint(i + 1), TableNumber: i%5 + 1, TotalAmount: float64(10 * (i + 1)),
			Status: models.OrderStatusCompleted, IdempotencyKey: "page-key-" + strconv.Itoa(i),
		})
	}

	req, _ := http.NewRequest("GET", "/completed-orders?page=2&limit=10&sortBy=total_amount&sortOrder=asc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 25.0, data["total"].(float64))
	assert.Equal(t, 3.0, data["total_pages"].(float64))

	items := data["items"].([]interface{})
	assert.Len(t, items, 10)
	// Halaman kedua ascending dimulai dari record ke-11 (total 110)
	first := items[0].(map[string]interface{})
	assert.Equal(t, 110.0, first["total_amount"].(float64))

	// sortBy di luar whitelist jatuh ke default, bukan error
	req, _ = http.NewRequest("GET", "/completed-orders?sortBy=;drop+table", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDailySummary(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupCompletedRouter(db)

	db.Create(&models.CompletedOrder{OrderID: 1, TableNumber: 1, TotalAmount: 100,
		Status: models.OrderStatusPaid, IdempotencyKey: "sum-1", CompletedAt: time.Now()})
	db.Create(&models.CompletedOrder{OrderID: 2, TableNumber: 2, TotalAmount: 50,
		Status: models.OrderStatusCompleted, IdempotencyKey: "sum-2", CompletedAt: time.Now()})

	req, _ := http.NewRequest("GET", "/completed-orders/summary", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 2.0, data["completed_orders"].(float64))
	assert.Equal(t, 1.0, data["paid_orders"].(float64))
	assert.Equal(t, 150.0, data["revenue"].(float64))
}
