package photo

import (
	"net/url"
	"strings"
)

// Variant tags how a raw reference is interpreted.
type Variant int

const (
	// Absent is an empty or blank reference.
	Absent Variant = iota
	// Sentinel is a placeholder value the backend stores for "no photo".
	Sentinel
	// OpaqueKey must be exchanged through the backend.
	OpaqueKey
	// DirectURL is already usable as-is (presigned, blob: or data: URL).
	DirectURL
)

func (v Variant) String() string {
	switch v {
	case Absent:
		return "absent"
	case Sentinel:
		return "sentinel"
	case OpaqueKey:
		return "opaque_key"
	case DirectURL:
		return "direct_url"
	default:
		return "unknown"
	}
}

type Reference struct {
	Variant Variant
	Value   string
}

const zeroSentinel = "0"

// Classify decides once, at the boundary, what a raw reference is.
// Absent query parameters and empty strings are the same thing here.
func Classify(cfg KindConfig, raw string) Reference {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Reference{Variant: Absent}
	case cfg.ZeroIsSentinel && trimmed == zeroSentinel:
		return Reference{Variant: Sentinel, Value: trimmed}
	case isResolvedURL(trimmed):
		return Reference{Variant: DirectURL, Value: trimmed}
	default:
		return Reference{Variant: OpaqueKey, Value: trimmed}
	}
}

// Locate classifies raw for cfg and reports ErrInvalidInput when the kind
// cannot build a request for the given id.
func Locate(cfg KindConfig, resourceID, raw string) (Reference, error) {
	ref := Classify(cfg, raw)
	if !needsExchange(cfg, ref) {
		return ref, nil
	}
	if _, err := cfg.Endpoint(resourceID, ref.Value); err != nil {
		return ref, err
	}
	return ref, nil
}

// ShouldFetch reports whether resolving raw requires a backend call.
func ShouldFetch(cfg KindConfig, resourceID, raw string) bool {
	ref, err := Locate(cfg, resourceID, raw)
	return err == nil && needsExchange(cfg, ref)
}

func needsExchange(cfg KindConfig, ref Reference) bool {
	switch ref.Variant {
	case OpaqueKey:
		return true
	case DirectURL:
		return !cfg.AcceptDirectURL
	default:
		return false
	}
}

func isResolvedURL(raw string) bool {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "blob:") || strings.HasPrefix(lower, "data:") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	query := u.Query()
	if query.Get("X-Amz-Signature") != "" || query.Get("X-Amz-Expires") != "" {
		return true
	}
	return query.Get("Signature") != "" && query.Get("Expires") != ""
}
