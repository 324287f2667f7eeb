package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/controllers"
	"github.com/yeremiapane/restaurant-supplier-backend/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	// Apply security middlewares
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	supplierCtrl := controllers.NewSupplierController(db)
	completedCtrl := controllers.NewCompletedOrderController(db)
	notificationCtrl := controllers.NewNotificationController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Rate limiter untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (Tanpa Auth) --
	// Membuat order (Customer tidak perlu login)
	r.POST("/orders", orderCtrl.PlaceOrder)
	r.GET("/orders/active", orderCtrl.GetActiveOrders)
	r.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	r.DELETE("/orders/:order_id", orderCtrl.CancelOrder)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.EnhancedAuthMiddleware())

	// Profil user (Admin/Cashier/Food-incharge/Supplier)
	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// ORDERS (staff)
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/active", orderCtrl.GetActiveOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.DELETE("/orders/:order_id", orderCtrl.CancelOrder)

	// TABLE AGGREGATION + PAYMENT (cashier)
	auth.GET("/tables/summary", orderCtrl.GetTableSummary)
	auth.POST("/tables/:table_number/mark-paid", orderCtrl.MarkTablePaid)

	// SUPPLIERS (food-incharge/admin)
	auth.GET("/suppliers", supplierCtrl.GetAllSuppliers)
	auth.POST("/suppliers", supplierCtrl.CreateSupplier)
	auth.PATCH("/suppliers/:supplier_id", supplierCtrl.UpdateSupplier)
	auth.DELETE("/suppliers/:supplier_id", supplierCtrl.DeleteSupplier)
	auth.POST("/suppliers/assign", supplierCtrl.AssignSupplier)
	auth.POST("/suppliers/:supplier_id/release", supplierCtrl.ReleaseSupplier)
	auth.GET("/suppliers/notifications", supplierCtrl.GetNotifications)
	auth.GET("/deliverystatus/:supplier_id", supplierCtrl.GetDeliveryStatus)

	// COMPLETED ORDERS (supplier menyelesaikan, cashier membaca)
	auth.POST("/orders/:order_id/complete", completedCtrl.CompleteOrder)
	auth.GET("/completed-orders", completedCtrl.GetCompletedOrders)
	auth.GET("/completed-orders/summary", completedCtrl.GetDailySummary)
	auth.GET("/completed-orders/:completed_id", completedCtrl.GetCompletedOrderByID)
	auth.POST("/completed-orders/:completed_id/refund", completedCtrl.RefundCompletedOrder)

	// NOTIFICATIONS (staff/admin)
	auth.GET("/notifications", notificationCtrl.GetAllNotifications)
	auth.POST("/notifications", notificationCtrl.CreateNotification)
	auth.GET("/notifications/:notif_id", notificationCtrl.GetNotificationByID)
	auth.DELETE("/notifications/:notif_id", notificationCtrl.DeleteNotification)

	// WebSocket endpoint dengan middleware khusus
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	wsGroup.Use(middlewares.RoleCheck())
	{
		wsGroup.GET("/:role", controllers.EventsHandler)
	}

	return r
}
