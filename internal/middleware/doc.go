// Package middleware provides HTTP middleware for the upload API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with cardinality-safe path labels
//   - Response compression for JSON and XML payloads
package middleware
