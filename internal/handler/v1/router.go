package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/nexus/internal/config"
	"github.com/dmehra2102/prod-golang-projects/nexus/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/nexus/pkg/metrics"
)

type RouterDeps struct {
	Config  *config.Config
	Handler *Handler
	Metrics *metrics.Collector
	Log     *zap.Logger
}

func NewRouter(d RouterDeps) *gin.Engine {
	if d.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestID(),
		AccessLog(d.Log),
		Metrics(d.Metrics),
		CORS(d.Config.CORS),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": d.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	h := d.Handler
	api := r.Group("/api/v1", NewRateLimiter(d.Config.RateLimit, d.Metrics).Middleware())

	api.POST("/auth/token", h.Login)
	api.POST("/auth/refresh", h.Refresh)

	secured := api.Group("", RequireAuth(h.auth))
	secured.GET("/tools", h.ListTools)
	secured.POST("/scores/:tool", h.Score)
	secured.GET("/reference-ranges", h.AllReferenceRanges)
	secured.GET("/reference-ranges/:category", h.ReferenceRanges)
	secured.POST("/sessions", h.CreateSession)
	secured.GET("/sessions/:id/report", h.SessionReport)
	secured.GET("/sessions/:id/report.xlsx", h.SessionReportXLSX)
	secured.GET("/sessions/:id/history", h.SessionHistory)
	secured.DELETE("/sessions/:id", h.DeleteSession)
	secured.GET("/history", RequireRole(h.auth, domain.RoleDoctor, domain.RoleAdmin), h.History)

	return r
}
