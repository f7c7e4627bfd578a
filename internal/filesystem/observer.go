package filesystem

// Observer records retry metrics. Implementations are provided by the
// metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// operation is the retried call: "stat" or "remove".
	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
func SetObserver(o Observer) {
	defaultObserver = o
}

type nopObserver struct{}

func (nopObserver) ObserveRetryAttempt(string) {}
func (nopObserver) ObserveRetrySuccess(string) {}
func (nopObserver) ObserveRetryFailure(string) {}
func (nopObserver) ObserveStaleError(string)   {}

func observe() Observer {
	if defaultObserver == nil {
		return nopObserver{}
	}
	return defaultObserver
}
