// Package middleware provides the HTTP middleware chain of the exporter:
// request IDs, request logging and panic recovery. Rate limiting comes from
// httprate and is applied per route by the server.
package middleware
