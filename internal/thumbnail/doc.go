// Package thumbnail turns a video id into a cached "now playing" card.
//
// A Renderer ties the pieces together: it checks the card cache, looks up
// the video's metadata, downloads the source thumbnail, composes the card
// with package card and stores the PNG under the cache directory. Every call
// ends in a Result; a failed render carries the configured placeholder URL
// and the stage that failed, so callers never have to handle a bare error.
//
// Cache layout:
//
//	<cache>/<id>.png           finished card at the configured canvas size
//	<cache>/<id>@<w>x<h>.png   finished card at any other size
//	<cache>/thumb_<id>.png     downloaded source image, removed after use
//
// The '@' keeps sized cards apart from ids such as "abc_100x100". When
// thumb_<id>.png is already taken, which happens when it is the card of the
// id "thumb_<id>", the source goes to a unique thumb_<id>.*.download file.
//
// Cards are written to a partial file and renamed into place, so a reader
// never sees a half-written PNG. Concurrent renders of the same id are not
// coalesced; the last rename wins.
package thumbnail
