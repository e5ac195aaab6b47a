// Package client provides the outbound HTTP client shared by the image
// fetcher and the prediction call.
//
// Built on go-resty/resty over a pooled go-retryablehttp transport:
//   - No retries (a failed call is reported, not repeated)
//   - Optional timeout; zero waits indefinitely
//   - Optional circuit breaker and client-side rate limit
//   - Trace headers from the request context are forwarded
//
// Example Usage:
//
//	c := client.NewClient(client.Options{Timeout: 10 * time.Second})
//	req, err := c.Request(ctx)
//	resp, err := req.Get(url)
package client
