package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/grafana/pyroscope-go/godeltaprof/http/pprof"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "repairshop.dev/photo-gateway/docs"

	"repairshop.dev/photo-gateway/app/domain/healthcheck"
	"repairshop.dev/photo-gateway/app/infrastructure/metrics"
	"repairshop.dev/photo-gateway/app/interfaces/http/middleware"
	v1 "repairshop.dev/photo-gateway/app/interfaces/http/routes/v1"
	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

const defaultPort = 8080

type HttpServer struct {
	engine      *gin.Engine
	v1Route     *v1.V1Route
	metrics     *metrics.PhotoCacheMetrics
	healthcheck *healthcheck.HealthcheckService
}

func NewHttpServer(
	v1Route *v1.V1Route,
	photoMetrics *metrics.PhotoCacheMetrics,
	healthcheckService *healthcheck.HealthcheckService,
) *HttpServer {
	gin.SetMode(gin.ReleaseMode)
	server := HttpServer{
		engine:      gin.New(),
		v1Route:     v1Route,
		metrics:     photoMetrics,
		healthcheck: healthcheckService,
	}
	server.engine.Use(
		middleware.LoggerMiddleware(logger.GetLogger()),
		gin.Recovery(),
		middleware.CORS(),
	)
	server.engine.GET("/health-check", server.healthCheck)
	server.engine.GET("/metrics", gin.WrapH(photoMetrics.Handler()))
	server.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
	// godeltaprof registers /debug/pprof/delta_{heap,block,mutex} on the default mux
	server.engine.GET("/debug/pprof/:profile", gin.WrapH(http.DefaultServeMux))
	server.v1Route.RegisterRouter(server.engine.Group("/"))
	return &server
}

func (httpServer *HttpServer) Handler() http.Handler {
	return httpServer.engine
}

func (httpServer *HttpServer) healthCheck(c *gin.Context) {
	if httpServer.healthcheck == nil {
		c.JSON(http.StatusOK, "ok")
		return
	}
	report := httpServer.healthcheck.Check(c.Request.Context())
	// the shared tier is optional: replicas keep serving from their local cache
	if !report.Healthy() {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "checks": report})
		return
	}
	c.JSON(http.StatusOK, "ok")
}

func (httpServer *HttpServer) Run() error {
	port := defaultPort
	if raw := strings.TrimSpace(environment_variables.EnvironmentVariables.HTTP_PORT); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid HTTP_PORT %q: %w", raw, err)
		}
		port = parsed
	}
	return httpServer.engine.Run(fmt.Sprintf(":%d", port))
}
