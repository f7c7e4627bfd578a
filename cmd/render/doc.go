// Command render renders now playing cards for one or more video ids from
// the command line, using the same cache and settings as the server.
//
// Usage:
//
//	render [flags] <video-id>...
//
// Flags:
//
//	-w, -h      Canvas size. Both or neither; neither uses CANVAS_SIZE.
//	-workers    Concurrent renders (default: RENDER_WORKERS or 1.5x CPUs).
//	-journal    Record each render in the journal database.
//	-v          Log at debug level.
//
// Output is one line per id, in argument order:
//
//	<id>	<path or placeholder URL>	<rendered|cached|fallback>
//
// The exit status is 1 when any render fell back to the placeholder and 2
// for usage or configuration errors.
//
// Environment:
//
// The command reads the same variables as the server (CACHE_DIR,
// DATABASE_DIR, YOUTUBE_API_KEY, YOUTUBE_API_URL, PLACEHOLDER_URL,
// HEADER_FONT, INFO_FONT, FOOTER_TEXT, CANVAS_SIZE, HTTP_TIMEOUT), including
// a .env file selected by ENV_FILE.
package main
