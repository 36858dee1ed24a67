package loader

import (
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

// Router registers handlers relative to the application's context root.
// Both web server adapters implement it.
type Router interface {
	Handle(method, path string, h http.Handler)
}

// Feature is a part of the hosted application.
type Feature interface {
	Name() string
	IsEnabled() bool
	Load(r Router) error
}

// Closer is implemented by features holding resources released on server stop.
type Closer interface {
	Close() error
}

// Manager holds the registry of features.
type Manager struct {
	mu       sync.Mutex
	features []Feature
	loaded   []Feature
	logger   *zap.Logger
}

// NewManager creates an empty feature manager.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// Register adds a feature. Registration order is load order.
func (m *Manager) Register(f Feature) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.features = append(m.features, f)
}

// Features returns the registered features.
func (m *Manager) Features() []Feature {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Feature(nil), m.features...)
}

// LoadAll loads every enabled feature into r, stopping at the first failure.
func (m *Manager) LoadAll(r Router) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.features {
		if !f.IsEnabled() {
			m.logger.Debug("Feature disabled", zap.String("feature", f.Name()))
			continue
		}
		if err := f.Load(r); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}
		m.loaded = append(m.loaded, f)
		m.logger.Info("Feature loaded", zap.String("feature", f.Name()))
	}
	return nil
}

// Close closes the loaded features in reverse load order. Every feature is
// closed even when an earlier one fails.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var errs []error
	for i := len(m.loaded) - 1; i >= 0; i-- {
		c, ok := m.loaded[i].(Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close feature %s: %w", m.loaded[i].Name(), err))
		}
	}
	m.loaded = nil
	return errors.Join(errs...)
}
