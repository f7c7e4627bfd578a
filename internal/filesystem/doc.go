/*
Package filesystem wraps the few filesystem calls the renderer makes against
its cache directory (stat for the cache check, remove for temp cleanup) with
retry logic for NFS stale file handle errors.

Only ESTALE (errno 116) triggers a retry; every other error is returned at
once. Retries use exponential backoff capped at MaxBackoff:

	ok, err := filesystem.IsRegularFile(path, filesystem.DefaultRetryConfig())

Defaults: 3 retries, 50ms initial backoff, 500ms cap. Retry counters are
reported through the Observer registered with SetObserver.
*/
package filesystem
