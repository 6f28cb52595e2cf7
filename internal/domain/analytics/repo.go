package analytics

import "context"

// RecordSource loads the raw appointment rows backing the pipeline. Each
// call reads the source fresh; the core never caches across requests.
type RecordSource interface {
	Load(ctx context.Context) ([]RawRecord, error)
}
