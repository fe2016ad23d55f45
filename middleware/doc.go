// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP client middleware and helper functions.

# Request Logging

Wrap a transport with request logging:

	httpClient := &http.Client{
		Transport: middleware.WithLogging(http.DefaultTransport),
	}

Logs request start (method, path, host) and completion (status, duration_ms).
Transport errors are logged at warn level and returned unchanged.

# User Agent

	transport = middleware.WithUserAgent(transport, "payshoff-cli")

The server refuses to serve in-app browser agents, so the client always
announces itself.

# Body Helpers

Encode a JSON request body:

	body, err := middleware.JSONBody(models.KickRequest{Target: "alice"})

Read a plain-text response body (the server's error messages):

	text, err := middleware.ReadText(resp)

Discard a body that is not needed:

	middleware.Drain(resp)
*/
package middleware
