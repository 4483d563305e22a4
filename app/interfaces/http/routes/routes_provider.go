package routes

import (
	"github.com/google/wire"
	v1 "repairshop.dev/photo-gateway/app/interfaces/http/routes/v1"
	"repairshop.dev/photo-gateway/app/interfaces/http/routes/v1/admin"
	"repairshop.dev/photo-gateway/app/interfaces/http/routes/v1/photos"
)

var RouteProvider = wire.NewSet(
	photos.NewPhotosRoute,
	admin.NewCacheRoute,
	v1.NewV1Route,
)
