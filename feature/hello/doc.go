// Package hello implements the demo application hosted by the launcher.
//
// # HTTP Endpoints
//
//   - GET /rest : Plain text "Hello!".
//   - GET /rest/counter : JSON count of greetings served since start.
//
// The counter is reset when the web server stops.
package hello
