// Package middleware holds the http.Handler wrappers applied around the
// router: access logging and CORS.
package middleware
