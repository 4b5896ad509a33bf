package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"psy-consensus/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
// Con jwtSvc nil las rutas de reportes quedan abiertas.
func NewRouter(
	logger *zap.Logger,
	reportH *ReportHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	reports := r.Group("/reports")
	read, write := []gin.HandlerFunc{}, []gin.HandlerFunc{}
	if jwtSvc != nil {
		reports.Use(JWTAuthMiddleware(jwtSvc))
		read = append(read, RequireScope(service.ScopeReportsRead))
		write = append(write, RequireScope(service.ScopeReportsWrite))
	}
	reports.POST("", append(write, reportH.CreateReport)...)
	reports.GET("", append(read, reportH.ListReports)...)
	reports.GET("/:id", append(read, reportH.GetReport)...)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
