// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON (admin API):

  - CreateElectionRequest: title, description, require_confirm
  - AddPositionRequest: title, capacity
  - AddCandidateRequest: name

Voter-facing requests are HTML form posts and are parsed by the handlers.

# Response Types

  - CreateElectionResponse: election_id, admin_key
  - AddPositionResponse: position_id
  - AddCandidateResponse: candidate_id
  - OpenElectionResponse: share_slug, share_url
  - CloseElectionResponse: closed_at, ballot_count
  - ErrorResponse: error, message

# Domain Types

  - Election: election metadata and lifecycle state
  - Position: an office with a capacity and its candidates
  - Candidate: one person standing for a position
  - Ballot: voter submission metadata
  - PositionResult / CandidateTally: closed-election results

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
*/
package models
