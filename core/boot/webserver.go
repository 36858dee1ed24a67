package boot

import (
	"context"

	"webboot/core/env"
	"webboot/core/server"
)

// WebServer is an abstraction over an embedded web server such as Fiber or Gin.
//
// The order of the calls:
//   - Configure is called exactly once, to set up the server.
//   - Start is called exactly once.
//   - Optionally, Await is called to block the main goroutine.
//   - Finally, Stop is called. It may be called without a successful Start, to
//     release whatever Configure or a failed Start acquired, and must tolerate that.
//
// Every web server must listen for http traffic on the configured address and port,
// under the context root, and serve the static content of the resource root.
type WebServer interface {
	// Configure prepares the server from the deployment. Called from one goroutine only.
	Configure(d *Deployment) error
	// Start starts the server and returns once it accepts connections, e.g. fails
	// when the port is occupied.
	Start() error
	// Stop stops the server and returns once it is fully stopped.
	Stop() error
	// Await blocks until some other goroutine calls Stop, or ctx is done.
	// May be called from multiple goroutines at the same time.
	Await(ctx context.Context) error
	// Name returns the name of the server, e.g. "Fiber".
	Name() string
}

// Deployment is everything a WebServer needs to host the application.
type Deployment struct {
	// Server is the effective, normalized server configuration.
	Server server.Config
	// ProductionMode reports whether the front-end assets were built for production.
	ProductionMode bool
	// DevelopmentEnvironment reports whether the process runs from a source checkout.
	DevelopmentEnvironment bool
	// ResourceRoot is the static web-resource folder.
	ResourceRoot env.ResourceLocation
	// ClassLocations hold the application's own code; empty when class scanning is disabled.
	ClassLocations []env.ClassLocation
}
