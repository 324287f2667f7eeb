package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-supplier-backend/config"
	"github.com/yeremiapane/restaurant-supplier-backend/middlewares"
	"github.com/yeremiapane/restaurant-supplier-backend/models"
	"github.com/yeremiapane/restaurant-supplier-backend/router"
	"github.com/yeremiapane/restaurant-supplier-backend/services"
	"github.com/yeremiapane/restaurant-supplier-backend/utils"
)

func init() {
	// Load .env file di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	// Initialize logger
	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	// Set output to stdout
	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	// Set formatters
	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Set gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Setup rate limiter (50 requests per detik per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Reset absensi harian di sisi server; tidak bergantung ke browser
	// admin yang kebetulan terbuka tengah malam
	attendanceScheduler := services.NewAttendanceScheduler(db)
	attendanceScheduler.Start()
	defer attendanceScheduler.Stop()

	// Sweep supplier yang tersangkut busy
	supplierMonitor := services.NewSupplierMonitor(db)
	supplierMonitor.Start()
	defer supplierMonitor.Stop()

	// Bersihkan blacklist token secara periodik
	go utils.CleanupBlacklist(1 * time.Hour)

	// Setup router
	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	// Set trusted proxies
	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
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
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
