// Package card draws the "now playing" card: a blurred and darkened copy of
// the video thumbnail as background, the same thumbnail as rounded album art
// with a soft shadow, and the header, title, metadata and footer text.
//
// The layout is fixed. Coordinates are expressed for a 1280x720 canvas; only
// the background size and the footer position follow the requested canvas
// size.
package card
