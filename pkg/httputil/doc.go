// Package httputil fetches remote datasets over HTTP.
//
// [Client.Get] downloads a URL with retries: network failures, 5xx
// responses and 429 rate limits are retried with exponential backoff
// (3 attempts, 1s doubling by default); other 4xx responses fail at once
// with a [StatusError]. Every attempt is reported to the registered
// [observability.HTTP] hooks.
//
//	c := httputil.NewClient()
//	data, err := c.Get(ctx, "https://example.org/housing.json")
//
// [Retry] is exported for callers with their own transient failures; wrap
// errors with [Retryable] to opt them into another attempt.
//
// [observability.HTTP]: github.com/matzehuels/zoomtree/pkg/observability.HTTP
package httputil
