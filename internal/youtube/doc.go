// Package youtube looks up video metadata through the YouTube Data API v3.
//
// The renderer only needs one record per video: title, duration, short view
// count, channel name and a thumbnail URL. Client.Search accepts either a
// watch URL, which is resolved with a single /videos call, or free text,
// which goes through /search first. Client.Lookup wraps Search for a single
// video id and applies the display defaults.
package youtube
