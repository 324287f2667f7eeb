package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/router"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

// TestEndToEndIntegration menguji flow utama:
// 0. Seed admin + supplier, login -> token
// 1. Customer place order (pending)
// 2. Staff assign meja ke supplier -> assigned + supplier busy
// 3. Complete order -> projection dibuat, active set kosong
// 4. Cashier mark-paid meja -> projection paid
func TestEndToEndIntegration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupIntegrationDB(t)
	r := router.SetupRouter(db)

	token := loginTest(t, r)

	// 1. Place order tanpa login
	orderID := placeOrderTest(t, r)

	// 2. Assign meja 3 ke supplier 1
	assignSupplierTest(t, r, token)

	// 3. Complete order
	completeOrderTest(t, r, token, orderID)

	// 4. Mark paid
	markPaidTest(t, r, token)
}

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.OrderAddOn{},
		&models.Supplier{},
		&models.SupplierNotification{},
		&models.AttendanceReset{},
		&models.CompletedOrder{},
		&models.CompletedItem{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// Buat admin user
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	db.Create(&models.User{
		Name:     "Test Admin",
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		Role:     "admin",
	})

	// Supplier yang hadir dan available
	db.Create(&models.Supplier{
		Name:       "Budi",
		LoginID:    "budi01",
		Password:   string(hashedPassword),
		Attendance: models.AttendancePresent,
		Status:     models.SupplierAvailable,
	})

	return db
}

func doJSON(t *testing.T, r *gin.Engine, method, url, token string, payload interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		assert.NoError(t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp map[string]interface{}
	if len(w.Body.Bytes()) > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func loginTest(t *testing.T, r *gin.Engine) string {
	w, resp := doJSON(t, r, "POST", "/login", "", map[string]interface{}{
		"email":    "admin@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	data := resp["data"].(map[string]interface{})
	token, ok := data["token"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, token)
	return token
}

func placeOrderTest(t *testing.T, r *gin.Engine) int {
	w, resp := doJSON(t, r, "POST", "/orders", "", map[string]interface{}{
		"food_name":    "Noodles",
		"base_price":   120.0,
		"table_number": 3,
		"add_ons": []map[string]interface{}{
			{"name": "Egg", "price": 20.0, "quantity": 2},
		},
		"special_instructions": "pedas",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 160.0, data["total_price"].(float64))
	return int(data["id"].(float64))
}

func assignSupplierTest(t *testing.T, r *gin.Engine, token string) {
	// Tanpa token -> 401
	w, _ := doJSON(t, r, "POST", "/admin/suppliers/assign", "", map[string]interface{}{
		"supplier_id": 1, "table_number": 3,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, "POST", "/admin/suppliers/assign", token, map[string]interface{}{
		"supplier_id": 1, "table_number": 3,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Supplier jadi busy
	w, resp := doJSON(t, r, "GET", "/admin/suppliers", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	suppliers := resp["data"].([]interface{})
	assert.Len(t, suppliers, 1)
	assert.Equal(t, "busy", suppliers[0].(map[string]interface{})["status"])

	// Work queue supplier berisi order meja 3
	w, resp = doJSON(t, r, "GET", "/admin/deliverystatus/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	orders := resp["data"].(map[string]interface{})["orders"].([]interface{})
	assert.Len(t, orders, 1)
}

func completeOrderTest(t *testing.T, r *gin.Engine, token string, orderID int) {
	url := "/admin/orders/" + strconv.Itoa(orderID) + "/complete"
	w, resp := doJSON(t, r, "POST", url, token, map[string]interface{}{
		"idempotency_key": "e2e-1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 160.0, data["total_amount"].(float64))
	assert.Equal(t, 3.0, data["table_number"].(float64))
	assert.Equal(t, "Budi", data["supplier_name"])

	// Active set kosong
	w, resp = doJSON(t, r, "GET", "/admin/orders/active", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, resp["data"])

	// Retry dengan key yang sama tidak membuat projection kedua
	w, _ = doJSON(t, r, "POST", url, token, map[string]interface{}{
		"idempotency_key": "e2e-1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func markPaidTest(t *testing.T, r *gin.Engine, token string) {
	w, resp := doJSON(t, r, "POST", "/admin/tables/3/mark-paid", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, resp["data"].(map[string]interface{})["orders_paid"].(float64))

	// Completed order sudah berstatus paid
	w, resp = doJSON(t, r, "GET", "/admin/completed-orders", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	items := resp["data"].(map[string]interface{})["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "paid", items[0].(map[string]interface{})["status"])
}
