// Package fiberserver hosts the application on Fiber.
//
// The app serves the registered features under the context root and falls back to
// the static content of the deployment. In production mode responses are compressed
// and static files are cacheable.
package fiberserver
