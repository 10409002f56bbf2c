package shared

// Asynq task types
const (
	// TypeDownloadBookFile copies a book PDF from object storage to the
	// local library directory of the worker node.
	TypeDownloadBookFile = "download:book_file"

	// TypeSweepStaleTransfers fails registry records stuck in pending.
	TypeSweepStaleTransfers = "download:sweep_stale"
)

// Asynq queue names (priority order is configured in cmd/worker)
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// Gin context keys set by middleware
const (
	CtxUserID    = "userID"
	CtxUserEmail = "userEmail"
	CtxUserRole  = "userRole"
)
