package hello

import (
	"webboot/core/loader"

	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new hello feature.
func NewFeature(logger *zap.Logger) *Feature {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := NewService(logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "hello"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(r loader.Router) error {
	f.handler.RegisterRoutes(r)
	return nil
}

// Close logs the greeting count and resets it.
func (f *Feature) Close() error {
	f.service.logger.Info("Hello feature closed", zap.Int64("greetings", f.service.Reset()))
	return nil
}
