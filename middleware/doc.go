// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("POST /e/{slug}/click", middleware.WithLogging(handler))

Logs each completed request with method, path, status and duration_ms.
Server errors are logged at error level.

# CORS

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST and OPTIONS with headers Content-Type, X-Admin-Key,
X-CSRF-Token and HX-Request.

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Request Helpers

IsHTMX reports whether a request came from htmx and wants a fragment.
GetClientIP returns the original client IP (X-Forwarded-For, X-Real-IP,
then RemoteAddr); ballots store only its salted hash.
*/
package middleware
