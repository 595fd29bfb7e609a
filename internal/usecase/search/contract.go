package search

import (
	"context"

	"github.com/kailas-cloud/segscope/internal/domain/search/request"
	"github.com/kailas-cloud/segscope/internal/domain/search/result"
	"github.com/kailas-cloud/segscope/internal/usecase/presenter"
)

// Searcher performs one combined request against the backend.
type Searcher interface {
	Do(ctx context.Context, req request.Request) (*result.Response, error)
}

// UsageRecorder counts the estimated spend of completed searches.
type UsageRecorder interface {
	Record(m presenter.Metrics)
}
