// Package middleware contains HTTP middleware shared by the embedded web servers.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - RayID: Generates a unique Request ID (RayID) for every incoming request,
//     injecting it into the context and response headers for tracing. Comes in a
//     Fiber and a Gin flavour.
//
// These middleware components are registered globally by the web server adapters.
package middleware
