// Package download fetches remote thumbnail images to local files.
package download
