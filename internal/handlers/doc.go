// Package handlers provides the HTTP handlers for the card renderer.
//
// It includes handlers for:
//   - Rendering and serving cards, with a redirect to the placeholder image
//     when a render fails
//   - Background prefetch of cards
//   - The render journal and aggregate statistics
//   - Health, liveness, readiness and version probes
package handlers
