// Package server holds the embedded web server configuration.
//
// The Config struct defines the port, the listen address, the context root the
// application is served under, and whether a browser is opened on startup in a
// development environment.
//
// # Normalization
//
// The context root is always either empty or a slash-prefixed path without a
// trailing slash: "/" and "" both mean the base context root, "foo/bar/" becomes
// "/foo/bar". Ports outside 1..65535 are rejected, never clamped.
//
// # Usage
//
// This package is used by core/config to resolve the settings from properties,
// the environment and defaults, and by core/boot which owns the effective Config.
package server
