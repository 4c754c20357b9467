// Package http provides the webhook HTTP API.
//
// The HTTP server exposes endpoints for:
//   - Pipeline triggers (bearer authenticated)
//   - Health checks
//   - Service info
//   - Prometheus metrics
package http
