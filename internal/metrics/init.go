package metrics

// Label values exported from the first scrape.
var (
	Outcomes     = []string{"rendered", "cached", "fallback"}
	Reasons      = []string{"invalid_id", "metadata", "download", "image", "filesystem"}
	RenderPhases = []string{"metadata", "download", "decode", "compose", "save", "total"}
)

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, o := range Outcomes {
		RendersTotal.WithLabelValues(o)
	}
	for _, r := range Reasons {
		RenderFailures.WithLabelValues(r)
	}
	for _, p := range RenderPhases {
		RenderDuration.WithLabelValues(p)
	}

	for _, endpoint := range []string{"search", "videos"} {
		MetadataRequestsTotal.WithLabelValues(endpoint, "success")
		MetadataRequestsTotal.WithLabelValues(endpoint, "error")
		MetadataRequestDuration.WithLabelValues(endpoint)
	}

	for _, s := range []string{"success", "error"} {
		DownloadsTotal.WithLabelValues(s)
	}

	for _, op := range []string{"stat", "remove"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
	}

	for _, op := range []string{"initialize_schema", "record_render", "recent_renders", "render_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
