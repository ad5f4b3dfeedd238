package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/childcheck-app/cache"
	"github.com/yeremiapane/childcheck-app/config"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/middlewares"
	"github.com/yeremiapane/childcheck-app/models"
	"github.com/yeremiapane/childcheck-app/router"
	"github.com/yeremiapane/childcheck-app/utils"
	"gorm.io/gorm"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database untuk akses lintas package
	utils.InitDB(db)

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Token blacklist: in-memory default, Redis untuk multi-instance
	var blacklist cache.TokenBlacklist
	if os.Getenv("BLACKLIST_BACKEND") == "redis" {
		redisAddr := os.Getenv("REDIS_ADDR")
		if redisAddr == "" {
			redisAddr = "localhost:6379"
		}
		blacklist = cache.NewRedisBlacklist(redisAddr, cache.DefaultBlacklistTTL)
		utils.InfoLogger.Printf("Token blacklist backend: redis (%s)", redisAddr)
	} else {
		blacklist = cache.NewMemoryBlacklist(cache.DefaultBlacklistTTL)
		utils.InfoLogger.Println("Token blacklist backend: memory")
	}

	enc := encryption.New(config.EncryptionKey())

	// Setup router + rate limiter global (50 request per detik per IP)
	r := router.SetupRouter(db, blacklist, enc)
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

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
		&models.StaffUser{},
		&models.Parent{},
		&models.Child{},
		&models.AttendanceRecord{},
		&models.AttendanceLog{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
