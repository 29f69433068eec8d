// Package pagination drives a paged World Bank endpoint to completion and
// merges every page into one result.
//
// Each upstream page is a two-element JSON array: a metadata object followed
// by the page's result array. The total page count is only known after the
// first page arrives, so pages are fetched strictly in order, one at a time.
//
// Example usage:
//
//	agg := pagination.NewAggregator(upstream, pagination.DefaultConfig())
//	res, err := agg.Aggregate(ctx, pagination.Request{
//		BaseURL: "https://api.worldbank.org/v2/region",
//		Format:  "json",
//		PerPage: "50",
//	})
//
// The aggregator:
//   - captures the metadata object of the first fetched page, exactly once
//   - appends each page's results in page order
//   - stops after one fetch when the caller pins a page
//   - otherwise follows the "pages" count from the captured metadata
//   - aborts on the first failing page; there are no partial results
package pagination
