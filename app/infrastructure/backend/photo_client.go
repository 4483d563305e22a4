package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/utils/httpclients"
	"repairshop.dev/photo-gateway/config/environment_variables"
	"resty.dev/v3"
)

var ErrMalformedBody = errors.New("backend: response is not a photo URL")

// PhotoClient exchanges stored photo references for presigned URLs against the
// repair-shop backend.
type PhotoClient struct {
	client *resty.Client
	tokens auth.TokenSource
}

func NewPhotoClient(client *resty.Client, tokens auth.TokenSource) *PhotoClient {
	return &PhotoClient{client: client, tokens: tokens}
}

// NewPhotoClientFromEnv builds the client from BACKEND_BASE_URL and BACKEND_TIMEOUT.
func NewPhotoClientFromEnv(tokens auth.TokenSource) *PhotoClient {
	env := environment_variables.EnvironmentVariables
	client := httpclients.NewClient("PhotoBackendClient").
		SetBaseURL(strings.TrimRight(env.BACKEND_BASE_URL, "/")).
		SetTimeout(httpclients.ParseTimeout(env.BACKEND_TIMEOUT))
	return NewPhotoClient(client, tokens)
}

func (c *PhotoClient) Fetch(ctx context.Context, cfg photo.KindConfig, key photo.Key) (photo.Resolution, error) {
	req, err := cfg.Endpoint(key.ResourceID, key.Reference)
	if err != nil {
		return photo.Resolution{}, err
	}

	r := c.client.R().
		SetContext(ctx).
		SetPathParams(req.PathParams).
		SetQueryParams(req.Query)
	if token, err := c.tokens.Token(ctx); err == nil {
		r.SetAuthToken(token)
	} else if !errors.Is(err, auth.ErrNoToken) {
		return photo.Resolution{}, err
	}

	resp, err := r.Get(req.Path)
	if err != nil {
		return photo.Resolution{}, &photo.FetchError{Kind: key.Kind, Err: err}
	}
	if !resp.IsSuccess() {
		return photo.Resolution{}, &photo.FetchError{
			Kind:       key.Kind,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("GET %s: %s", req.Path, truncate(resp.String(), 200)),
		}
	}

	value, err := parsePhotoURL(resp.String())
	if err != nil {
		return photo.Resolution{}, &photo.FetchError{Kind: key.Kind, StatusCode: resp.StatusCode(), Err: err}
	}
	return photo.Resolution{URL: value}, nil
}

// parsePhotoURL accepts a bare URL or a JSON string. An empty body or a JSON
// null is the backend saying there is no photo.
func parsePhotoURL(body string) (*string, error) {
	body = strings.TrimSpace(body)
	if body == "" || body == "null" {
		return nil, nil
	}
	if strings.HasPrefix(body, `"`) {
		var unquoted string
		if err := json.Unmarshal([]byte(body), &unquoted); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		body = strings.TrimSpace(unquoted)
		if body == "" {
			return nil, nil
		}
	}

	lower := strings.ToLower(body)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "blob:") {
		return &body, nil
	}
	u, err := url.Parse(body)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedBody, truncate(body, 80))
	}
	return &body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
