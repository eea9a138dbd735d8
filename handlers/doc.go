// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for Quickly Elect.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election lifecycle (create, positions, candidates, open, close)
  - BallotHandler: Login, candidate clicks, ballot submission, logout
  - ResultsHandler: Results page with position tabs, JSON results, ballot count

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, sessions)

# Election Lifecycle

Elections progress through three states: draft → open → closed

	POST /elections                                 → CreateElection (returns admin_key)
	POST /elections/{id}/positions                  → AddPosition (draft only)
	POST /elections/{id}/positions/{pid}/candidates → AddCandidate (draft only)
	POST /elections/{id}/open                       → OpenElection (generates share_slug)
	POST /elections/{id}/close                      → CloseElection (seals results)

Admin operations require the X-Admin-Key header.

# Ballot Page

A voter logs in with a username on /e/{slug} and gets a session cookie.
The session holds the ballot page: one selection.Position per position,
each button Selectable, Selected or Disabled. Every click is posted to
/e/{slug}/click and applied under the session lock, so clicks on one
ballot never interleave. htmx callers (HX-Request: true) get just the
clicked position back; plain form posts get the whole ballot.

Reloading /e/{slug} rebuilds the page from the database, which clears
any unsaved selections.

Submitting sends the selected candidate IDs as a JSON array in document
order. The server checks the array against the election layout
(selection.ValidatePayload) before storing it, so a forged payload
cannot exceed a position's capacity. Re-submitting replaces the voter's
earlier ballot.

# Results

Results stay sealed until the election is closed. ComputeTallies ranks
candidates per position by vote count and marks the top Capacity
candidates with at least one vote as elected.
*/
package handlers
