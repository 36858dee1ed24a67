// Package loader provides the plugin-like feature loading system.
//
// It allows the launcher to register the hosted application's features (modules)
// and mount them on whichever embedded web server was picked. Each feature implements
// the Feature interface, which defines its lifecycle hooks and route registration logic.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(r Router) error
//	}
//
// Routes are plain net/http handlers registered through a Router, relative to the
// context root, so a feature runs unchanged on Fiber and on Gin. Features holding
// resources additionally implement Closer.
//
// # Manager
//
// The Manager struct holds the registry of available features. It handles:
//   - Registration of features via Register()
//   - Loading of enabled features via LoadAll(), when the web server is configured
//   - Releasing them via Close(), when the web server stops
package loader
