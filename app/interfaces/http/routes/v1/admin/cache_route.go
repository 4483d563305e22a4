package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/domain/common"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/interfaces/http/middleware"
	"repairshop.dev/photo-gateway/app/interfaces/http/responses"
	"repairshop.dev/photo-gateway/app/utils/functional"
	"repairshop.dev/photo-gateway/app/utils/logger"
)

// CacheRoute exposes administrative photo cache operations.
type CacheRoute struct {
	service *photo.Service
}

func NewCacheRoute(service *photo.Service) *CacheRoute {
	return &CacheRoute{service: service}
}

func (route *CacheRoute) RegisterRouter(router gin.IRouter) {
	adminRouter := router.Group("/admin/photos/cache",
		middleware.AuthMiddleware(),
		middleware.RequireRoles(auth.RoleAdmin),
	)
	adminRouter.GET("", route.GetStats)
	adminRouter.POST("/flush", route.FlushCache)
}

type CacheStatsResponse struct {
	Object  string   `json:"object"`
	Entries int      `json:"entries"`
	Kinds   []string `json:"kinds"`
}

// GetStats godoc
// @Summary     Photo cache statistics
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} CacheStatsResponse
// @Failure     403 {object} responses.ErrorResponse
// @Router      /v1/admin/photos/cache [get]
func (route *CacheRoute) GetStats(reqCtx *gin.Context) {
	cache := route.service.Cache()
	reqCtx.JSON(http.StatusOK, CacheStatsResponse{
		Object:  "photo_cache.stats",
		Entries: cache.Len(),
		Kinds:   functional.Map(cache.Registry().Kinds(), photo.Kind.String),
	})
}

type CacheFlushResponse struct {
	Object  string `json:"object"`
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

// FlushCache godoc
// @Summary     Flush the photo cache
// @Description Drops every cached URL on this replica and in the shared cache.
// @Tags        admin
// @Security    BearerAuth
// @Produce     json
// @Success     200 {object} CacheFlushResponse
// @Failure     403 {object} responses.ErrorResponse
// @Failure     502 {object} responses.ErrorResponse
// @Router      /v1/admin/photos/cache/flush [post]
func (route *CacheRoute) FlushCache(reqCtx *gin.Context) {
	removed, err := route.service.Flush(reqCtx.Request.Context())
	if err != nil {
		logger.GetLogger().Errorf("admin cache: failed to flush shared cache: %v", err)
		responses.Abort(reqCtx, common.ErrSharedCache)
		return
	}
	reqCtx.JSON(http.StatusOK, CacheFlushResponse{
		Object:  "photo_cache.flush",
		Status:  "ok",
		Removed: removed,
	})
}
