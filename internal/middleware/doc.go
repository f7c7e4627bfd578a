// Package middleware provides HTTP middleware for the card renderer.
//
// It includes:
//   - Request logging in W3C Extended Log Format, with the render cache or
//     fallback status of each card request
//   - Prometheus request metrics keyed by route template
//   - Configurable filtering for browser and crawler files and health checks
package middleware
