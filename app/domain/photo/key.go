package photo

import (
	"encoding/base64"
	"strings"
)

// Key identifies one resolved URL: (kind, resource id, raw reference), plus
// the caller scope when the backend answers per caller.
type Key struct {
	Kind       Kind
	ResourceID string
	Reference  string
	// Scope is empty when URLs are fetched with a service identity and may be
	// shared by every caller.
	Scope string
}

// NewKey normalizes the id and the reference the same way Classify does.
func NewKey(kind Kind, resourceID, reference string) Key {
	return Key{Kind: kind, ResourceID: strings.TrimSpace(resourceID), Reference: strings.TrimSpace(reference)}
}

func (k Key) WithScope(scope string) Key {
	k.Scope = scope
	return k
}

func (k Key) Unscoped() Key {
	k.Scope = ""
	return k
}

// String is a stable, storage-safe form: kind:<id>:<ref>[:<scope>] with the
// dynamic parts base64url encoded.
func (k Key) String() string {
	s := string(k.Kind) + ":" + sanitizeKeyPart(k.ResourceID) + ":" + sanitizeKeyPart(k.Reference)
	if k.Scope != "" {
		s += ":" + sanitizeKeyPart(k.Scope)
	}
	return s
}

// ResourcePrefix matches every key of one resource regardless of reference and scope.
func (k Key) ResourcePrefix() string {
	return string(k.Kind) + ":" + sanitizeKeyPart(k.ResourceID) + ":"
}

// ScopePrefix matches every scoped copy of the unscoped key.
func (k Key) ScopePrefix() string {
	return k.Unscoped().String() + ":"
}

func sanitizeKeyPart(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
