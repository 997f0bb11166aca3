package config

import (
	"context"
	"sync"
	"sync/atomic"
)

// Manager holds the active configuration and allows atomic replacement.
type Manager struct {
	current atomic.Value // stores *Config
}

// NewManager creates a manager holding the given configuration.
func NewManager(cfg *Config) *Manager {
	m := &Manager{}
	if cfg == nil {
		cfg = Default()
	}
	m.current.Store(cfg)
	return m
}

// Get returns the active configuration.
func (m *Manager) Get() *Config {
	cfg, _ := m.current.Load().(*Config)
	return cfg
}

// Set replaces the active configuration.
func (m *Manager) Set(cfg *Config) {
	if cfg != nil {
		m.current.Store(cfg)
	}
}

type ctxKey struct{}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// ContextWithManager stores the configuration manager in the context.
func ContextWithManager(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// ManagerFromContext retrieves the configuration manager from the context.
// If none is found, it falls back to a lazily-initialized default manager
// loaded from defaults and environment so callers always have a usable
// configuration.
func ManagerFromContext(ctx context.Context) *Manager {
	if ctx != nil {
		if m, ok := ctx.Value(ctxKey{}).(*Manager); ok && m != nil {
			return m
		}
	}
	defaultManagerOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		defaultManager = NewManager(cfg)
	})
	return defaultManager
}

// FromContext returns the active configuration for the provided context.
func FromContext(ctx context.Context) *Config {
	return ManagerFromContext(ctx).Get()
}
