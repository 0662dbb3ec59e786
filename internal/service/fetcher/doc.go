// Package fetcher retrieves the split archives over HTTP into the scratch
// directory, rendering a terminal progress bar sized from Content-Length.
//
// Downloads are one-shot: a network error or non-2xx response aborts the run
// without retries, matching the pipeline's setup-utility semantics.
package fetcher
