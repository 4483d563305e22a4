package photo

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindPart        Kind = "part"
	KindRepair      Kind = "repair"
	KindAfterRepair Kind = "after_repair"
	KindProfile     Kind = "profile"
	KindWarranty    Kind = "warranty"
)

var Kinds = []Kind{KindPart, KindRepair, KindAfterRepair, KindProfile, KindWarranty}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts the canonical name as well as dashed spellings ("after-repair").
func ParseKind(value string) (Kind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	for _, kind := range Kinds {
		if string(kind) == normalized {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
}

// Request is the backend call that exchanges a reference for a URL.
type Request struct {
	Path       string
	PathParams map[string]string
	Query      map[string]string
}

// EndpointFunc builds the backend request for a resource id and raw reference.
type EndpointFunc func(resourceID, reference string) (Request, error)

// PathEndpoint addresses the photo by resource id, e.g. /part/getPartPhoto/{partId}.
func PathEndpoint(template, param string) EndpointFunc {
	return func(resourceID, _ string) (Request, error) {
		resourceID = strings.TrimSpace(resourceID)
		if resourceID == "" {
			return Request{}, fmt.Errorf("%w: %s requires a resource id", ErrInvalidInput, template)
		}
		return Request{
			Path:       template,
			PathParams: map[string]string{param: resourceID},
		}, nil
	}
}

// QueryEndpoint passes the stored reference as the photoUrl query parameter.
func QueryEndpoint(path string) EndpointFunc {
	return func(_, reference string) (Request, error) {
		if strings.TrimSpace(reference) == "" {
			return Request{}, fmt.Errorf("%w: %s requires a photo reference", ErrInvalidInput, path)
		}
		return Request{
			Path:  path,
			Query: map[string]string{"photoUrl": reference},
		}, nil
	}
}

// KindConfig is the static per-kind policy: endpoint, TTL pair and sentinel rules.
type KindConfig struct {
	Kind Kind
	// Fresh is how long a resolved URL is served without refetching.
	Fresh time.Duration
	// Evict is when an entry is dropped entirely. Always greater than Fresh.
	Evict    time.Duration
	Endpoint EndpointFunc
	// RequiresID marks kinds whose endpoint is addressed by resource id.
	RequiresID bool
	// ZeroIsSentinel treats the literal reference "0" as "no photo".
	ZeroIsSentinel bool
	// AcceptDirectURL lets already-presigned or local URLs through without an exchange.
	AcceptDirectURL bool
}

func (c KindConfig) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("%w: kind config without kind", ErrInvalidInput)
	}
	if c.Fresh <= 0 {
		return fmt.Errorf("%w: %s fresh window must be positive", ErrInvalidInput, c.Kind)
	}
	if c.Evict <= c.Fresh {
		return fmt.Errorf("%w: %s evict window must exceed fresh window", ErrInvalidInput, c.Kind)
	}
	if c.Endpoint == nil {
		return fmt.Errorf("%w: %s has no endpoint", ErrInvalidInput, c.Kind)
	}
	return nil
}

// WithFresh returns a copy using the given fresh window and an evict window of twice that.
func (c KindConfig) WithFresh(fresh time.Duration) KindConfig {
	c.Fresh = fresh
	c.Evict = 2 * fresh
	return c
}

const (
	PartPhotoPath     = "/part/getPartPhoto/{partId}"
	RepairPhotoPath   = "/repairTicket/getRepairPhotos"
	ProfilePhotoPath  = "/user/getProfilePicture/{userId}"
	WarrantyPhotoPath = "/warranty/getWarrantyPhotos"
)

// DefaultKindConfigs mirrors the backend's URL expiry windows per kind.
func DefaultKindConfigs() []KindConfig {
	return []KindConfig{
		KindConfig{
			Kind:           KindPart,
			Endpoint:       PathEndpoint(PartPhotoPath, "partId"),
			RequiresID:     true,
			ZeroIsSentinel: true,
		}.WithFresh(12 * time.Minute),
		KindConfig{
			Kind:            KindRepair,
			Endpoint:        QueryEndpoint(RepairPhotoPath),
			ZeroIsSentinel:  true,
			AcceptDirectURL: true,
		}.WithFresh(12 * time.Minute),
		KindConfig{
			Kind:            KindAfterRepair,
			Endpoint:        QueryEndpoint(RepairPhotoPath),
			ZeroIsSentinel:  true,
			AcceptDirectURL: true,
		}.WithFresh(12 * time.Minute),
		KindConfig{
			Kind:       KindProfile,
			Endpoint:   PathEndpoint(ProfilePhotoPath, "userId"),
			RequiresID: true,
		}.WithFresh(4 * time.Minute),
		KindConfig{
			Kind:            KindWarranty,
			Endpoint:        QueryEndpoint(WarrantyPhotoPath),
			ZeroIsSentinel:  true,
			AcceptDirectURL: true,
		}.WithFresh(10 * time.Minute),
	}
}
