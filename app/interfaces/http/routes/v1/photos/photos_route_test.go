package photos

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/interfaces/http/responses"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

type harness struct {
	engine  *gin.Engine
	service *photo.Service
	calls   atomic.Int32
	release chan struct{}
	once    sync.Once
}

func newHarness(t *testing.T, blocking bool) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	previous := environment_variables.EnvironmentVariables
	environment_variables.EnvironmentVariables.JWT_SECRET = "s3cret"
	t.Cleanup(func() { environment_variables.EnvironmentVariables = previous })

	h := &harness{release: make(chan struct{})}
	if !blocking {
		close(h.release)
	}
	t.Cleanup(h.unblock)

	fetcher := photo.FetcherFunc(func(ctx context.Context, cfg photo.KindConfig, key photo.Key) (photo.Resolution, error) {
		h.calls.Add(1)
		select {
		case <-h.release:
		case <-ctx.Done():
			return photo.Resolution{}, ctx.Err()
		}
		url := "https://cdn.example/" + key.ResourceID + ".png"
		return photo.Resolution{URL: &url}, nil
	})
	cache := photo.NewCache(photo.DefaultRegistry(), fetcher)
	h.service = photo.NewService(cache, photo.NewPrefetcher(cache, 4), nil)

	h.engine = gin.New()
	NewPhotosRoute(h.service).RegisterRouter(h.engine.Group("/v1"))
	return h
}

func (h *harness) unblock() {
	h.once.Do(func() {
		select {
		case <-h.release:
		default:
			close(h.release)
		}
	})
}

func token(t *testing.T, roles ...string) string {
	t.Helper()
	signed, err := auth.CreateJwtSignedString(auth.UserClaim{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return signed
}

func (h *harness) do(t *testing.T, method, target, body string, roles ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token(t, roles...))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) photo.State {
	t.Helper()
	var state photo.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	return state
}

func TestGetPhoto_SentinelIsImmediate(t *testing.T) {
	h := newHarness(t, true)

	rec := h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":null,"is_loading":false,"is_error":false}`, rec.Body.String())

	rec = h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=0", "")
	assert.JSONEq(t, `{"data":null,"is_loading":false,"is_error":false}`, rec.Body.String())
	assert.Equal(t, int32(0), h.calls.Load())
}

func TestGetPhoto_LoadingThenResolved(t *testing.T) {
	h := newHarness(t, true)

	first := decodeState(t, h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=parts/42.png", ""))
	second := decodeState(t, h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=parts/42.png", ""))
	assert.True(t, first.IsLoading)
	assert.True(t, second.IsLoading)
	require.Eventually(t, func() bool { return h.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	h.unblock()
	state := decodeState(t, h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=parts/42.png&wait=true", ""))
	require.NotNil(t, state.Data)
	assert.Equal(t, "https://cdn.example/42.png", *state.Data)
	assert.Equal(t, int32(1), h.calls.Load())
}

func TestGetPhoto_Errors(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(t, http.MethodGet, "/v1/photos/invoice?id=1&ref=x", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/photos/part?id=1&ref=x", nil)
	rec = httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPhoto_DashedKind(t *testing.T) {
	h := newHarness(t, false)
	state := decodeState(t, h.do(t, http.MethodGet, "/v1/photos/after-repair?ref=tickets/1.jpg&wait=1", ""))
	require.NotNil(t, state.Data)
}

func TestWatchPhoto(t *testing.T) {
	h := newHarness(t, true)
	go func() {
		time.Sleep(20 * time.Millisecond)
		h.unblock()
	}()

	rec := h.do(t, http.MethodGet, "/v1/photos/profile/watch?id=7&ref=me.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/event-stream"), rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "event:state")
	assert.Contains(t, body, `"is_loading":true`)
	assert.Contains(t, body, `"data":"https://cdn.example/7.png"`)
}

func TestWatchPhoto_SettledReferenceEndsAtOnce(t *testing.T) {
	h := newHarness(t, true)
	rec := h.do(t, http.MethodGet, "/v1/photos/warranty/watch?ref=", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "event:state"))
}

func TestPostPrefetch(t *testing.T) {
	h := newHarness(t, false)

	rec := h.do(t, http.MethodPost, "/v1/photos/prefetch", `{"items":[
		{"kind":"part","id":"1","ref":"a"},
		{"kind":"part","id":"2","ref":"0"},
		{"kind":"bogus","id":"3","ref":"c"},
		{"kind":"after-repair","ref":"t.jpg"}
	],"wait":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var body responses.GeneralResponse[PrefetchResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Result.Scheduled)
	assert.Equal(t, int32(2), h.calls.Load())

	rec = h.do(t, http.MethodPost, "/v1/photos/prefetch", `{"items":[{"kind":"part","id":"9","ref":"z"}]}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = h.do(t, http.MethodPost, "/v1/photos/prefetch", `{"items":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	items := strings.Repeat(`{"kind":"part","id":"1","ref":"a"},`, MaxPrefetchItems)
	rec = h.do(t, http.MethodPost, "/v1/photos/prefetch", `{"items":[`+items+`{"kind":"part","id":"1","ref":"a"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostInvalidate(t *testing.T) {
	h := newHarness(t, false)
	h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=a&wait=true", "")
	require.Equal(t, int32(1), h.calls.Load())

	rec := h.do(t, http.MethodPost, "/v1/photos/part/invalidate", `{"id":"42","ref":"a"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(t, http.MethodPost, "/v1/photos/part/invalidate", `{"id":"42","ref":"a"}`, auth.RoleStaff)
	require.Equal(t, http.StatusOK, rec.Code)
	var body responses.GeneralResponse[InvalidateResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Result.Removed)

	h.do(t, http.MethodGet, "/v1/photos/part?id=42&ref=a&wait=true", "")
	assert.Equal(t, int32(2), h.calls.Load())
}
