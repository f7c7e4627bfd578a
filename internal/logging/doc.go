// Package logging provides the leveled logger used across the now-playing
// renderer.
//
// Levels, from most to least verbose:
//   - DEBUG: per-render steps (cache checks, downloads, font loading)
//   - INFO: startup configuration and completed renders
//   - WARN: recoverable problems such as a temp file that could not be removed
//   - ERROR: renders that fell back to the placeholder image
//
// The level comes from the LOG_LEVEL environment variable; DEBUG=true forces
// debug output. SetLevel overrides both, mainly for tests and the CLI.
package logging
