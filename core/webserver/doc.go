// Package webserver holds what the embedded web server adapters share: the static
// content overlay of a deployment and a net/http static file handler.
//
// The adapters themselves live in the fiberserver and ginserver sub-packages.
package webserver
