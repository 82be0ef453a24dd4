// internal/api/router.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hol-manager/internal/common/logger"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Checks        *ChecksHandler
	Archive       *ArchiveHandler
	Employees     *EmployeesHandler
	Notifications *NotificationsHandler
}

// NewRouter builds the HTTP surface. The /internal routes are the scheduler's
// entry points; in production they require the trusted cron header before any
// work starts. The /api routes are the manual and admin surface.
func NewRouter(h Handlers, production bool, log logger.Logger) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	internal := router.Group("/internal")
	internal.Use(RequireCronCaller(production, log))
	{
		internal.POST("/checks/run", h.Checks.RunScheduled)
		internal.POST("/archive/run", h.Archive.Run)
	}

	api := router.Group("/api")
	{
		api.POST("/checks/run", h.Checks.RunManual)

		api.POST("/archive/run", h.Archive.Run)
		api.GET("/archive/artifacts", h.Archive.ListArtifacts)

		api.GET("/employees", h.Employees.List)
		api.GET("/employees/export", h.Employees.Export)
		api.POST("/employees", h.Employees.Create)
		api.GET("/employees/:id", h.Employees.Get)
		api.PATCH("/employees/:id", h.Employees.Patch)
		api.DELETE("/employees/:id", h.Employees.Delete)
		api.GET("/employees/:id/summary", h.Employees.Summary)

		api.GET("/legalization/statuses", h.Employees.LegalizationStatuses)

		api.GET("/notifications", h.Notifications.List)
	}

	return router
}
