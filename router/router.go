package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yeremiapane/childcheck-app/cache"
	"github.com/yeremiapane/childcheck-app/controllers"
	"github.com/yeremiapane/childcheck-app/encryption"
	"github.com/yeremiapane/childcheck-app/middlewares"
	"github.com/yeremiapane/childcheck-app/services"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB, blacklist cache.TokenBlacklist, enc *encryption.Encryptor) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.Metrics())

	// Services
	authService := services.NewAuthService(db, blacklist)
	parentService := services.NewParentService(db, enc)
	childService := services.NewChildService(db, enc)
	attendanceService := services.NewAttendanceService(db, enc)

	// Controllers
	authCtrl := controllers.NewAuthController(authService)
	parentCtrl := controllers.NewParentController(parentService)
	childCtrl := controllers.NewChildController(childService)
	scanCtrl := controllers.NewScanController(parentService)
	attendanceCtrl := controllers.NewAttendanceController(attendanceService)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	auth.POST("/login", middlewares.NewStrictRateLimiter(), authCtrl.Login)
	auth.POST("/logout", middlewares.AuthMiddleware(blacklist), authCtrl.Logout)
	auth.POST("/register",
		middlewares.AuthMiddleware(blacklist),
		middlewares.RequireRole("admin"),
		authCtrl.Register)

	// Endpoint khusus admin
	admin := api.Group("")
	admin.Use(middlewares.AuthMiddleware(blacklist), middlewares.RequireRole("admin"))
	{
		admin.POST("/parents", parentCtrl.CreateParent)
		admin.GET("/parents/:parent_id/qr", parentCtrl.GetQrCode)
		admin.GET("/parents/:parent_id/qr-data", parentCtrl.GetQrData)
		admin.POST("/parents/:parent_id/children", childCtrl.CreateChild)
		admin.DELETE("/children/:child_id", childCtrl.DeleteChild)
	}

	// Endpoint staff (admin juga lolos)
	staff := api.Group("")
	staff.Use(middlewares.AuthMiddleware(blacklist), middlewares.RequireRole("staff"))
	{
		staff.GET("/parents", parentCtrl.GetAllParents)
		staff.GET("/children", childCtrl.GetAllChildren)
		staff.POST("/scan", scanCtrl.Scan)

		attendance := staff.Group("/attendance")
		attendance.POST("/checkin", attendanceCtrl.CheckIn)
		attendance.POST("/checkout", attendanceCtrl.CheckOut)
		attendance.POST("/checkout-by-child", attendanceCtrl.CheckOutByChild)
		attendance.POST("/checkout-by-parent", attendanceCtrl.CheckOutByParent)
		attendance.POST("/mark", attendanceCtrl.Mark)
		attendance.POST("/list", attendanceCtrl.GetAllRecords)
		attendance.GET("/reports/session", attendanceCtrl.SessionReport)
		attendance.POST("/reports/session", attendanceCtrl.SessionReport)
		attendance.GET("/today", attendanceCtrl.Today)
		attendance.GET("/recent", attendanceCtrl.Recent)
		attendance.GET("/parent/:parent_id/checked-in", attendanceCtrl.CheckedInByParent)
	}

	return r
}
