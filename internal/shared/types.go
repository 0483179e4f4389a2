package shared

// Task types handled by cmd/worker
const (
	TypeLogContentChanged = "devlog:content_changed"
	TypeBackfillSlugs     = "devlog:backfill_slugs"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)
