package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	// DefaultPort is the port the web server listens on for http:// traffic.
	DefaultPort = 8080
	// MinPort and MaxPort bound the accepted port range.
	MinPort = 1
	MaxPort = 65535
)

// ErrInvalidPort is returned when a port lies outside MinPort..MaxPort.
var ErrInvalidPort = errors.New("invalid port")

// Config holds configuration for the embedded web server.
type Config struct {
	// Port is the port where the server will listen.
	Port int `mapstructure:"port" default:"8080"`
	// Address is the interface to listen on. Empty means all interfaces.
	Address string `mapstructure:"address" default:""`
	// ContextRoot is the URL path prefix the application is served under.
	ContextRoot string `mapstructure:"context_path" default:""`
	// OpenBrowserInDevMode opens the default browser once the server is up,
	// when running from a source checkout with production mode off.
	OpenBrowserInDevMode bool `mapstructure:"open_browser" default:"true"`
}

// Default returns the hard-coded defaults.
func Default() Config {
	return Config{
		Port:                 DefaultPort,
		OpenBrowserInDevMode: true,
	}
}

// ValidatePort checks that port lies in 1..65535. Values are never clamped.
func ValidatePort(port int) error {
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("%w %d: must be %d..%d", ErrInvalidPort, port, MinPort, MaxPort)
	}
	return nil
}

// NormalizeContextRoot returns either "" or a path with a leading slash and
// no trailing slash. The function is idempotent.
func NormalizeContextRoot(contextRoot string) string {
	root := strings.TrimSpace(contextRoot)
	root = strings.TrimRight(root, "/")
	if root == "" {
		return ""
	}
	if !strings.HasPrefix(root, "/") {
		root = "/" + root
	}
	return root
}

// Normalize validates the port and normalizes the context root.
func (c Config) Normalize() (Config, error) {
	if err := ValidatePort(c.Port); err != nil {
		return c, err
	}
	c.Address = strings.TrimSpace(c.Address)
	c.ContextRoot = NormalizeContextRoot(c.ContextRoot)
	return c, nil
}

// ListenAddr returns the host:port pair handed to net.Listen.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// URL returns the URL where the app is running, e.g. http://localhost:8080/app.
func (c Config) URL() string {
	host := c.Address
	if host == "" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(c.Port)) + c.ContextRoot
}
