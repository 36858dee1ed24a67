// Package ginserver hosts the application on Gin.
//
// Gin runs in release mode when the front-end was built for production; responses
// are then gzip compressed and static files are cacheable. Outside production mode
// CORS is open to every origin, so a separately served front-end dev server can call
// the features.
package ginserver
