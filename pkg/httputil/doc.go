// Package httputil provides retry-with-backoff for the transient failures
// of the external services iongraph depends on: connecting to MongoDB for
// persisted layouts, and connecting to Redis for the distributed cache.
//
// # Retry
//
// [Retry] wraps an operation with automatic retry for errors explicitly
// marked transient. It uses exponential backoff:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return client.Ping(ctx, nil)
//	})
//
// Only errors wrapped in [RetryableError] are retried; anything else is
// returned immediately, since most connection failures (bad credentials,
// malformed URIs) aren't going to resolve themselves on the next attempt.
package httputil
