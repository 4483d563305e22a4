package photo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"part", KindPart, false},
		{"Profile", KindProfile, false},
		{"after-repair", KindAfterRepair, false},
		{"after_repair", KindAfterRepair, false},
		{" warranty ", KindWarranty, false},
		{"invoice", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownKind)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultKindConfigs(t *testing.T) {
	want := map[Kind]time.Duration{
		KindPart:        12 * time.Minute,
		KindRepair:      12 * time.Minute,
		KindAfterRepair: 12 * time.Minute,
		KindProfile:     4 * time.Minute,
		KindWarranty:    10 * time.Minute,
	}
	configs := DefaultKindConfigs()
	require.Len(t, configs, len(want))
	for _, cfg := range configs {
		require.NoError(t, cfg.Validate())
		assert.Equal(t, want[cfg.Kind], cfg.Fresh, cfg.Kind)
		assert.Equal(t, 2*cfg.Fresh, cfg.Evict, cfg.Kind)
	}
}

func TestKindConfig_Validate(t *testing.T) {
	base := KindConfig{Kind: KindPart, Endpoint: PathEndpoint(PartPhotoPath, "partId")}.WithFresh(time.Minute)
	require.NoError(t, base.Validate())

	noFresh := base
	noFresh.Fresh = 0
	assert.ErrorIs(t, noFresh.Validate(), ErrInvalidInput)

	shortEvict := base
	shortEvict.Evict = shortEvict.Fresh
	assert.ErrorIs(t, shortEvict.Validate(), ErrInvalidInput)

	noEndpoint := base
	noEndpoint.Endpoint = nil
	assert.ErrorIs(t, noEndpoint.Validate(), ErrInvalidInput)
}

func TestEndpoints(t *testing.T) {
	registry := DefaultRegistry()

	part, err := registry.Config(KindPart)
	require.NoError(t, err)
	req, err := part.Endpoint("42", "https://s3/x.png")
	require.NoError(t, err)
	assert.Equal(t, "/part/getPartPhoto/{partId}", req.Path)
	assert.Equal(t, map[string]string{"partId": "42"}, req.PathParams)
	assert.Empty(t, req.Query)

	_, err = part.Endpoint("", "https://s3/x.png")
	assert.ErrorIs(t, err, ErrInvalidInput)

	profile, err := registry.Config(KindProfile)
	require.NoError(t, err)
	req, err = profile.Endpoint("7", "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "/user/getProfilePicture/{userId}", req.Path)
	assert.Equal(t, "7", req.PathParams["userId"])

	for _, kind := range []Kind{KindRepair, KindAfterRepair} {
		cfg, err := registry.Config(kind)
		require.NoError(t, err)
		req, err := cfg.Endpoint("", "tickets/9/before.jpg")
		require.NoError(t, err)
		assert.Equal(t, "/repairTicket/getRepairPhotos", req.Path)
		assert.Equal(t, map[string]string{"photoUrl": "tickets/9/before.jpg"}, req.Query)
	}

	warranty, err := registry.Config(KindWarranty)
	require.NoError(t, err)
	req, err = warranty.Endpoint("3", "abc")
	require.NoError(t, err)
	assert.Equal(t, "/warranty/getWarrantyPhotos", req.Path)
	assert.Equal(t, "abc", req.Query["photoUrl"])
}
