package photos

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/domain/common"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/interfaces/http/middleware"
	"repairshop.dev/photo-gateway/app/interfaces/http/responses"
	"repairshop.dev/photo-gateway/app/utils/functional"
	"repairshop.dev/photo-gateway/app/utils/logger"
)

const (
	MaxWait          = 10 * time.Second
	MaxWatch         = 60 * time.Second
	MaxPrefetchItems = 200
)

type PhotosRoute struct {
	service *photo.Service
}

func NewPhotosRoute(service *photo.Service) *PhotosRoute {
	return &PhotosRoute{service: service}
}

func (route *PhotosRoute) RegisterRouter(router gin.IRouter) {
	photosRouter := router.Group("/photos", middleware.AuthMiddleware())
	photosRouter.POST("/prefetch", route.PostPrefetch)
	photosRouter.GET("/:kind", route.GetPhoto)
	photosRouter.GET("/:kind/watch", route.WatchPhoto)
	photosRouter.POST("/:kind/invalidate",
		middleware.RequireRoles(auth.RoleAdmin, auth.RoleStaff),
		route.PostInvalidate,
	)
}

// GetPhoto godoc
// @Summary     Resolve a photo reference
// @Description Returns the presigned URL for a stored photo reference. Without wait the call never blocks and may report is_loading; the fetch continues in the background.
// @Tags        photos
// @Security    BearerAuth
// @Produce     json
// @Param       kind path  string true  "part, repair, after_repair, profile or warranty"
// @Param       id   query string false "resource id (part id, user id)"
// @Param       ref  query string false "stored photo reference"
// @Param       wait query bool   false "block until the fetch settles"
// @Success     200 {object} photo.State
// @Failure     401 {object} responses.ErrorResponse
// @Failure     404 {object} responses.ErrorResponse "unknown kind"
// @Router      /v1/photos/{kind} [get]
func (route *PhotosRoute) GetPhoto(reqCtx *gin.Context) {
	kind, ok := parseKind(reqCtx)
	if !ok {
		return
	}
	wait, _ := strconv.ParseBool(reqCtx.Query("wait"))

	ctx := reqCtx.Request.Context()
	if wait {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, MaxWait)
		defer cancel()
	}
	state := route.service.Lookup(ctx, kind, reqCtx.Query("id"), reqCtx.Query("ref"), wait)
	reqCtx.JSON(http.StatusOK, state)
}

// WatchPhoto godoc
// @Summary     Stream photo state
// @Description Server-sent "state" events until the reference settles or the client leaves.
// @Tags        photos
// @Security    BearerAuth
// @Produce     text/event-stream
// @Param       kind path  string true  "photo kind"
// @Param       id   query string false "resource id"
// @Param       ref  query string false "stored photo reference"
// @Success     200 {string} string "SSE stream of photo.State"
// @Failure     404 {object} responses.ErrorResponse "unknown kind"
// @Router      /v1/photos/{kind}/watch [get]
func (route *PhotosRoute) WatchPhoto(reqCtx *gin.Context) {
	kind, ok := parseKind(reqCtx)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(reqCtx.Request.Context(), MaxWatch)
	defer cancel()

	view, _ := route.service.Watch(ctx, kind, reqCtx.Query("id"), reqCtx.Query("ref"))
	defer view.Close()

	reqCtx.Header("Content-Type", "text/event-stream")
	reqCtx.Header("Cache-Control", "no-cache")
	reqCtx.Header("Connection", "keep-alive")
	reqCtx.Status(http.StatusOK)

	// the bound state is always the first update
	for {
		select {
		case state, open := <-view.Updates():
			if !open {
				return
			}
			reqCtx.SSEvent("state", state)
			reqCtx.Writer.Flush()
			if !state.IsLoading {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

type PrefetchRequest struct {
	Items []photo.PrefetchRequest `json:"items" binding:"required"`
	// Wait blocks until every item settles.
	Wait bool `json:"wait"`
}

type PrefetchResponse struct {
	Scheduled int `json:"scheduled"`
}

// PostPrefetch godoc
// @Summary     Warm the photo cache
// @Description Starts fetches for references a dashboard is about to show. Sentinels and direct URLs are skipped.
// @Tags        photos
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       request body PrefetchRequest true "references to warm"
// @Success     200 {object} responses.GeneralResponse[PrefetchResponse] "with wait"
// @Success     202 {object} responses.GeneralResponse[PrefetchResponse]
// @Failure     400 {object} responses.ErrorResponse
// @Router      /v1/photos/prefetch [post]
func (route *PhotosRoute) PostPrefetch(reqCtx *gin.Context) {
	var request PrefetchRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		responses.Abort(reqCtx, common.ErrInvalidRequest.WithMessage(err.Error()))
		return
	}
	if len(request.Items) > MaxPrefetchItems {
		responses.Abort(reqCtx, common.ErrTooManyItems)
		return
	}

	// unknown kinds are skipped like sentinels
	items := functional.FilterMap(request.Items, func(item photo.PrefetchRequest) (photo.PrefetchRequest, bool) {
		kind, err := photo.ParseKind(string(item.Kind))
		item.Kind = kind
		return item, err == nil
	})

	ctx := reqCtx.Request.Context()
	if !request.Wait {
		reqCtx.JSON(http.StatusAccepted, responses.Ok(PrefetchResponse{
			Scheduled: route.service.Prefetch(ctx, items),
		}))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, MaxWait)
	defer cancel()
	scheduled, err := route.service.PrefetchAndWait(ctx, items)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.GetLogger().Warnf("photos route: prefetch interrupted: %v", err)
	}
	reqCtx.JSON(http.StatusOK, responses.Ok(PrefetchResponse{Scheduled: scheduled}))
}

type InvalidateRequest struct {
	ID string `json:"id"`
	// Ref empty drops every reference of the resource.
	Ref string `json:"ref"`
}

type InvalidateResponse struct {
	Removed int `json:"removed"`
}

// PostInvalidate godoc
// @Summary     Invalidate cached photo URLs
// @Description Drops one reference, or every reference of a resource when ref is empty, on this replica and in the shared cache. Watchers get a fresh fetch.
// @Tags        photos
// @Security    BearerAuth
// @Accept      json
// @Produce     json
// @Param       kind    path string            true "photo kind"
// @Param       request body InvalidateRequest true "resource to invalidate"
// @Success     200 {object} responses.GeneralResponse[InvalidateResponse]
// @Failure     403 {object} responses.ErrorResponse
// @Failure     502 {object} responses.ErrorResponse "shared cache unavailable"
// @Router      /v1/photos/{kind}/invalidate [post]
func (route *PhotosRoute) PostInvalidate(reqCtx *gin.Context) {
	kind, ok := parseKind(reqCtx)
	if !ok {
		return
	}
	var request InvalidateRequest
	if err := reqCtx.ShouldBindJSON(&request); err != nil {
		responses.Abort(reqCtx, common.ErrInvalidRequest.WithMessage(err.Error()))
		return
	}

	removed, err := route.service.Invalidate(reqCtx.Request.Context(), kind, request.ID, request.Ref)
	if err != nil {
		if photo.IsClientError(err) {
			responses.Abort(reqCtx, common.ErrInvalidRequest.WithMessage(err.Error()))
			return
		}
		responses.Abort(reqCtx, common.ErrSharedCache)
		return
	}
	reqCtx.JSON(http.StatusOK, responses.Ok(InvalidateResponse{Removed: removed}))
}

func parseKind(reqCtx *gin.Context) (photo.Kind, bool) {
	kind, err := photo.ParseKind(reqCtx.Param("kind"))
	if err != nil {
		responses.Abort(reqCtx, common.ErrUnknownKind)
		return "", false
	}
	return kind, true
}
