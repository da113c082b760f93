package routes

import (
	adminapi "booking-app/internal/api/admin"
	authapi "booking-app/internal/api/auth"
	bookingsapi "booking-app/internal/api/bookings"
	columnsapi "booking-app/internal/api/columns"
	mediaapi "booking-app/internal/api/media"
	plansapi "booking-app/internal/api/plans"
	profilesapi "booking-app/internal/api/profiles"
	siteapi "booking-app/internal/api/site"
	"booking-app/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Admin    *adminapi.Handler
	Columns  *columnsapi.Handler
	Plans    *plansapi.Handler
	Media    *mediaapi.Handler
	Bookings *bookingsapi.Handler
	Profiles *profilesapi.Handler
	Site     *siteapi.Handler
}

func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/plans", h.Plans.Public)
	r.GET("/profiles", h.Profiles.Public)
	r.GET("/site", h.Site.Get)
	r.POST("/bookings", middleware.SanitizeAndCleanInputMiddleware(), h.Bookings.Submit)

	r.POST("/admin/login", authapi.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(authapi.RoleAdmin), middleware.SanitizeAndCleanInputMiddleware())
	admin.GET("/dashboard", h.Admin.Dashboard)
	admin.GET("/workflow", h.Admin.Workflow)

	admin.GET("/columns", h.Columns.List)
	admin.GET("/columns/table", h.Columns.Table)
	admin.GET("/columns/stream", h.Columns.Stream)
	admin.POST("/columns", h.Columns.Create)
	admin.PUT("/columns/:id", h.Columns.Update)
	admin.DELETE("/columns/:id", h.Columns.Delete)

	admin.GET("/plans", h.Plans.List)
	admin.GET("/plans/table", h.Plans.Table)
	admin.GET("/plans/form", h.Plans.CreateForm)
	admin.GET("/plans/stream", h.Plans.Stream)
	admin.GET("/plans/:id", h.Plans.Get)
	admin.GET("/plans/:id/form", h.Plans.EditForm)
	admin.POST("/plans", h.Plans.Create)
	admin.PUT("/plans/:id", h.Plans.Update)
	admin.DELETE("/plans/:id", h.Plans.Delete)

	admin.GET("/media", h.Media.List)
	admin.POST("/media", h.Media.Upload)

	admin.GET("/bookings", h.Bookings.List)
	admin.GET("/bookings/stream", h.Bookings.Stream)
	admin.GET("/bookings/:id", h.Bookings.Get)
	admin.POST("/bookings", h.Bookings.Create)
	admin.PUT("/bookings/:id/complete", h.Bookings.Complete)
	admin.DELETE("/bookings/:id", h.Bookings.Delete)

	admin.GET("/profiles", h.Profiles.List)
	admin.GET("/profiles/stream", h.Profiles.Stream)
	admin.GET("/profiles/:id", h.Profiles.Get)
	admin.POST("/profiles", h.Profiles.Create)
	admin.PUT("/profiles/:id", h.Profiles.Update)
	admin.POST("/profiles/:id/image", h.Profiles.UploadImage)
	admin.DELETE("/profiles/:id", h.Profiles.Delete)

	admin.GET("/settings", h.Site.Get)
	admin.PUT("/settings", h.Site.Update)
	admin.POST("/settings/logo", h.Site.UploadLogo)
}
