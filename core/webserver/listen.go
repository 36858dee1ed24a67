package webserver

import (
	"fmt"
	"net"

	"webboot/core/server"
)

// Listen binds the configured address synchronously, so an occupied port fails the
// start instead of a background goroutine.
func Listen(cfg server.Config) (net.Listener, error) {
	addr := cfg.ListenAddr()
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return ln, nil
}
