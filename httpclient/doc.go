// Package httpclient is the request executor at the heart of the harness.
//
// A Client wraps a configured endpoint (base URL, timeout, default headers,
// authentication, retry policy) and executes logical requests against it:
// build, dispatch, retry transient failures with backoff, materialize the
// response, and log both sides of the exchange.
//
// Execute never returns an error for ordinary HTTP or network conditions.
// Everything, including transport failures after retries are exhausted,
// surfaces through the returned Result. The only error returns are context
// cancellation and invalid input.
//
//	log := logger.NewDefault("orders-suite")
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.example.com",
//	    Auth:    httpclient.BearerAuth(token),
//	    Retry:   &policy,
//	}, log)
//
//	res, err := client.Get(ctx, "/orders/42", nil)
//	if res.IsSuccess() { ... }
package httpclient
