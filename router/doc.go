// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for Quickly Elect.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, sessions)

# Endpoints

Operational:

	GET /health
	GET /metrics
	GET /static/{file}

Election management (admin, requires X-Admin-Key):

	POST /elections                                 - Create election
	GET  /elections/{id}/admin                      - Election with positions
	POST /elections/{id}/positions                  - Add position
	POST /elections/{id}/positions/{pid}/candidates - Add candidate
	POST /elections/{id}/open                       - Open for voting
	POST /elections/{id}/close                      - Seal results
	GET  /elections/{id}/export                     - Tallies as CSV

Ballot pages (share slug, session cookie):

	GET  /e/{slug}         - Login form or ballot
	POST /e/{slug}/login   - Claim a username
	POST /e/{slug}/click   - Click a candidate button
	POST /e/{slug}/ballot  - Submit the selected candidates
	GET  /e/{slug}/results - Results page, ?tab= highlights a position
	POST /logout           - End the session (X-CSRF-Token)
	GET  /memes/{id}       - Reveal a meme fragment

Results JSON:

	GET /elections/{slug}/results
	GET /elections/{slug}/ballot-count
*/
package router
