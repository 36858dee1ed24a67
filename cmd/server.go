package cmd

import (
	"fmt"
	"strings"

	"webboot/core/boot"
	"webboot/core/config"
	"webboot/core/loader"
	"webboot/core/logger"
	"webboot/core/webserver/fiberserver"
	"webboot/core/webserver/ginserver"

	"go.uber.org/zap"
)

// loadConfig resolves the configuration from the -D overrides, the environment and .env.
func loadConfig() (*config.Config, error) {
	props, err := config.ParseProperties(properties)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadConfig(".", props)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logg, nil
}

// newWebServer picks the adapter by name: fiber or gin.
func newWebServer(name string, logg *zap.Logger, features *loader.Manager) (boot.WebServer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fiber":
		return fiberserver.New(logg, features), nil
	case "gin":
		return ginserver.New(logg, features), nil
	}
	return nil, fmt.Errorf("unknown web server %q: expected fiber or gin", name)
}
