package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attendance-backend/internal/config"
	"attendance-backend/internal/handlers"
	"attendance-backend/internal/middleware"
)

func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "attendance-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db, cfg)
	employeeHandler := handlers.NewEmployeeHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(db)
	qrHandler := handlers.NewQRHandler(db)
	attendanceHandler := handlers.NewAttendanceHandler(db, cfg)
	dashboardHandler := handlers.NewDashboardHandler(db)
	leaveHandler := handlers.NewLeaveHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password/start", authHandler.ForgotPasswordStart)
		api.POST("/auth/forgot-password/verify", authHandler.ForgotPasswordVerify)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/password", authHandler.ChangePassword)

		protected.GET("/employees", employeeHandler.List)
		protected.POST("/employees", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Create)
		protected.PUT("/employees/:id", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Update)
		protected.DELETE("/employees/:id", middleware.RequireAnyRole("admin", "manager"), employeeHandler.Delete)
		protected.POST("/employees/:id/user", middleware.RequireAnyRole("admin", "manager"), employeeHandler.CreateUser)
		protected.PUT("/employees/:id/user/password", middleware.RequireAnyRole("admin", "manager"), employeeHandler.UpsertUserPassword)

		protected.GET("/departments", departmentHandler.List)
		protected.POST("/departments", middleware.RequireAnyRole("admin", "manager"), departmentHandler.Create)
		protected.PUT("/departments/:id", middleware.RequireAnyRole("admin", "manager"), departmentHandler.Update)
		protected.DELETE("/departments/:id", middleware.RequireAnyRole("admin", "manager"), departmentHandler.Delete)

		protected.GET("/qr", middleware.RequireAnyRole("admin", "manager"), qrHandler.List)
		protected.POST("/qr/generate", middleware.RequireAnyRole("admin", "manager"), qrHandler.Generate)
		protected.POST("/qr/:id/deactivate", middleware.RequireAnyRole("admin", "manager"), qrHandler.Deactivate)
		protected.GET("/qr/:id/image", middleware.RequireAnyRole("admin", "manager"), qrHandler.Image)
		protected.POST("/qr/validate", qrHandler.Validate)

		protected.POST("/attendance/scan", middleware.RequireAnyRole("admin", "manager", "employee"), attendanceHandler.Scan)
		protected.GET("/attendance", middleware.RequireAnyRole("admin", "manager", "employee"), attendanceHandler.List)
		protected.GET("/attendance/report", middleware.RequireAnyRole("admin", "manager"), attendanceHandler.Report)
		protected.GET("/attendance/history", middleware.RequireAnyRole("admin", "manager", "employee"), attendanceHandler.History)
		protected.DELETE("/attendance/:id", middleware.RequireAnyRole("admin", "manager"), attendanceHandler.Delete)
		protected.DELETE("/attendance/employee/:employeeId", middleware.RequireAnyRole("admin", "manager"), attendanceHandler.DeleteByEmployee)

		protected.GET("/dashboard/stats", dashboardHandler.Stats)
		protected.GET("/dashboard/recent-attendance", middleware.RequireAnyRole("admin", "manager"), dashboardHandler.RecentAttendance)

		protected.GET("/leave/requests", middleware.RequireAnyRole("admin", "manager", "employee"), leaveHandler.ListRequests)
		protected.POST("/leave/requests", middleware.RequireAnyRole("admin", "manager", "employee"), leaveHandler.CreateRequest)
		protected.PATCH("/leave/requests/:id/approve", middleware.RequireAnyRole("admin", "manager"), leaveHandler.Approve)
		protected.PATCH("/leave/requests/:id/reject", middleware.RequireAnyRole("admin", "manager"), leaveHandler.Reject)
		protected.DELETE("/leave/requests/:id", middleware.RequireAnyRole("admin", "manager", "employee"), leaveHandler.DeleteRequest)

		protected.GET("/settings/attendance-policy", middleware.RequireAnyRole("admin", "manager"), settingsHandler.GetAttendancePolicy)
		protected.PUT("/settings/attendance-policy", middleware.RequireAnyRole("admin", "manager"), settingsHandler.UpdateAttendancePolicy)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	allowAll := len(origins) == 0

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowedOrigin := range origins {
				if origin == allowedOrigin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					c.Writer.Header().Set("Vary", "Origin")
					break
				}
			}
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
