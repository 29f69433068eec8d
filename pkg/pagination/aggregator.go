package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// PageFetcher issues a single GET request and returns the status and body.
// A non-nil error means no response was received.
type PageFetcher interface {
	FetchPage(ctx context.Context, pageURL string) (statusCode int, body []byte, err error)
}

// Config holds aggregator configuration.
type Config struct {
	// Logger receives progress and warning events. Defaults to the global
	// zerolog logger tagged with component=aggregator.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default aggregator configuration.
func DefaultConfig() Config {
	return Config{}
}

// Request describes one aggregation.
type Request struct {
	// Operation labels metrics and logs.
	Operation string

	// BaseURL is the resolved upstream URL without paging parameters.
	BaseURL string

	Format  string
	PerPage string

	// Page pins a single page. Nil fetches every page.
	Page *int

	MRV  *string
	Date *string
}

// Result is the merged outcome of an aggregation.
type Result struct {
	// Metadata is the metadata element of the first fetched page, unmodified.
	Metadata json.RawMessage

	// Results holds every page's items in page order.
	Results []json.RawMessage

	// PagesFetched is the number of upstream requests issued.
	PagesFetched int
}

// Aggregator fetches and merges paged results.
type Aggregator struct {
	fetcher PageFetcher
	logger  zerolog.Logger
}

// NewAggregator creates a new aggregator.
func NewAggregator(fetcher PageFetcher, config Config) *Aggregator {
	logger := log.With().Str("component", "aggregator").Logger()
	if config.Logger != nil {
		logger = *config.Logger
	}

	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Aggregate runs the fetch loop for req. Pages are requested one after the
// other starting at 1 (or at the pinned page) until the page counter passes
// the total page count reported by the first page. Any failure aborts the
// whole aggregation and no partial result is returned.
func (a *Aggregator) Aggregate(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	page := 1
	if req.Page != nil {
		page = *req.Page
	}

	result := &Result{Results: []json.RawMessage{}}
	pages := 1

	for {
		if err := ctx.Err(); err != nil {
			aggregationsTotal.WithLabelValues(req.Operation, "cancelled").Inc()
			return nil, fmt.Errorf("aggregation cancelled before page %d: %w", page, err)
		}

		pageURL := BuildPageURL(req, page)
		a.logger.Debug().
			Str("operation", req.Operation).
			Int("page", page).
			Str("url", pageURL).
			Msg("Fetching page")

		status, body, err := a.fetcher.FetchPage(ctx, pageURL)
		if err != nil {
			aggregationsTotal.WithLabelValues(req.Operation, "transport_error").Inc()
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		pagesFetchedTotal.WithLabelValues(req.Operation).Inc()
		result.PagesFetched++

		if status < 200 || status > 299 {
			a.logger.Warn().
				Str("operation", req.Operation).
				Int("page", page).
				Int("status", status).
				Msg("Upstream rejected page request")
			aggregationsTotal.WithLabelValues(req.Operation, "api_error").Inc()
			return nil, &APIError{
				StatusCode: status,
				Body:       string(body),
				Page:       page,
				URL:        pageURL,
			}
		}

		metadata, items, err := parsePage(body, page)
		if err != nil {
			a.logger.Warn().
				Err(err).
				Str("operation", req.Operation).
				Int("page", page).
				Msg("Upstream page has unexpected structure")
			aggregationsTotal.WithLabelValues(req.Operation, "unexpected_structure").Inc()
			return nil, err
		}

		if result.Metadata == nil {
			result.Metadata = metadata
			pages = a.declaredPages(req.Operation, metadata)
		}
		result.Results = append(result.Results, items...)

		if req.Page != nil {
			break
		}

		page++
		if page > pages {
			break
		}
	}

	aggregationsTotal.WithLabelValues(req.Operation, "success").Inc()
	aggregationPages.Observe(float64(result.PagesFetched))

	a.logger.Info().
		Str("operation", req.Operation).
		Int("pages", result.PagesFetched).
		Int("results", len(result.Results)).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return result, nil
}

// declaredPages returns the total page count from the first page's metadata.
// A missing or non-integer count is treated as a single page.
func (a *Aggregator) declaredPages(operation string, metadata json.RawMessage) int {
	n, ok := totalPages(metadata)
	if !ok {
		missingPageCountTotal.WithLabelValues(operation).Inc()
		a.logger.Warn().
			Str("operation", operation).
			RawJSON("metadata", metadata).
			Msg("Metadata has no usable pages field, assuming a single page")
		return 1
	}
	return n
}
