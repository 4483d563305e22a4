package environment_variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend:8080")
	t.Setenv("ALLOWED_CORS_HOSTS", "http://a.local, http://b.local,,")
	t.Setenv("PHOTO_ZERO_SENTINEL_KINDS", "part,warranty")

	var ev EnvironmentVariable
	ev.LoadFromEnv()

	assert.Equal(t, "http://backend:8080", ev.BACKEND_BASE_URL)
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, ev.ALLOWED_CORS_HOSTS)
	assert.Equal(t, []string{"part", "warranty"}, ev.PHOTO_ZERO_SENTINEL_KINDS)
}

func TestLoadFromEnv_EmptyListClearsPrevious(t *testing.T) {
	t.Setenv("PHOTO_ZERO_SENTINEL_KINDS", "")

	ev := EnvironmentVariable{PHOTO_ZERO_SENTINEL_KINDS: []string{"part"}}
	ev.LoadFromEnv()

	assert.Empty(t, ev.PHOTO_ZERO_SENTINEL_KINDS)
}

func TestLoadFromEnv_UnsetKeepsValue(t *testing.T) {
	ev := EnvironmentVariable{CACHE_TYPE: "memory"}
	ev.LoadFromEnv()

	assert.Equal(t, "memory", ev.CACHE_TYPE)
}
