package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/app/interfaces/http/routes/v1/admin"
	"repairshop.dev/photo-gateway/app/interfaces/http/routes/v1/photos"
	"repairshop.dev/photo-gateway/config"
)

type V1Route struct {
	photosRoute *photos.PhotosRoute
	cacheRoute  *admin.CacheRoute
}

func NewV1Route(
	photosRoute *photos.PhotosRoute,
	cacheRoute *admin.CacheRoute,
) *V1Route {
	return &V1Route{
		photosRoute,
		cacheRoute,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/version", GetVersion)
	v1Route.photosRoute.RegisterRouter(v1Router)
	v1Route.cacheRoute.RegisterRouter(v1Router)
}

// GetVersion godoc
// @Summary     Get API build version
// @Description Returns the current build version of the API server.
// @Tags        system
// @Produce     json
// @Success     200 {object} map[string]string "version info"
// @Router      /v1/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": config.Version,
	})
}
