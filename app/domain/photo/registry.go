package photo

import (
	"fmt"
	"strings"
	"time"

	"repairshop.dev/photo-gateway/config/environment_variables"
)

// Registry holds the KindConfig of every resource kind. It is built once at
// startup and read-only afterwards.
type Registry struct {
	configs map[Kind]KindConfig
}

func NewRegistry(configs ...KindConfig) (*Registry, error) {
	registry := &Registry{configs: make(map[Kind]KindConfig, len(configs))}
	for _, cfg := range configs {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		registry.configs[cfg.Kind] = cfg
	}
	return registry, nil
}

func DefaultRegistry() *Registry {
	registry, err := NewRegistry(DefaultKindConfigs()...)
	if err != nil {
		panic(err)
	}
	return registry
}

// NewRegistryFromEnv applies PHOTO_TTL_<KIND> and PHOTO_ZERO_SENTINEL_KINDS on top of the defaults.
func NewRegistryFromEnv() (*Registry, error) {
	env := environment_variables.EnvironmentVariables
	overrides := map[Kind]string{
		KindPart:        env.PHOTO_TTL_PART,
		KindRepair:      env.PHOTO_TTL_REPAIR,
		KindAfterRepair: env.PHOTO_TTL_AFTER_REPAIR,
		KindProfile:     env.PHOTO_TTL_PROFILE,
		KindWarranty:    env.PHOTO_TTL_WARRANTY,
	}

	var zeroKinds map[Kind]bool
	if len(env.PHOTO_ZERO_SENTINEL_KINDS) > 0 {
		zeroKinds = make(map[Kind]bool, len(env.PHOTO_ZERO_SENTINEL_KINDS))
		for _, name := range env.PHOTO_ZERO_SENTINEL_KINDS {
			kind, err := ParseKind(name)
			if err != nil {
				return nil, fmt.Errorf("PHOTO_ZERO_SENTINEL_KINDS: %w", err)
			}
			zeroKinds[kind] = true
		}
	}

	configs := DefaultKindConfigs()
	for i, cfg := range configs {
		if raw := strings.TrimSpace(overrides[cfg.Kind]); raw != "" {
			fresh, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("PHOTO_TTL_%s: %w", strings.ToUpper(string(cfg.Kind)), err)
			}
			cfg = cfg.WithFresh(fresh)
		}
		if zeroKinds != nil {
			cfg.ZeroIsSentinel = zeroKinds[cfg.Kind]
		}
		configs[i] = cfg
	}
	return NewRegistry(configs...)
}

func (r *Registry) Config(kind Kind) (KindConfig, error) {
	cfg, ok := r.configs[kind]
	if !ok {
		return KindConfig{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return cfg, nil
}

func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.configs))
	for _, kind := range Kinds {
		if _, ok := r.configs[kind]; ok {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}
