package models

import "time"

// Election status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Request types

type CreateElectionRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	RequireConfirm bool   `json:"require_confirm"`
}

type AddPositionRequest struct {
	Title    string `json:"title"`
	Capacity int    `json:"capacity"`
}

type AddCandidateRequest struct {
	Name string `json:"name"`
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddPositionResponse struct {
	PositionID string `json:"position_id"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type OpenElectionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type CloseElectionResponse struct {
	ClosedAt    time.Time `json:"closed_at"`
	BallotCount int       `json:"ballot_count"`
}

// Domain types

type Election struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	RequireConfirm bool       `json:"require_confirm"`
	ShareSlug      *string    `json:"share_slug,omitempty"`
	ClosedAt       *time.Time `json:"closed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Position struct {
	ID         string      `json:"id"`
	ElectionID string      `json:"election_id"`
	Title      string      `json:"title"`
	Capacity   int         `json:"capacity"`
	SortOrder  int         `json:"sort_order"`
	Candidates []Candidate `json:"candidates"`
}

type Candidate struct {
	ID         string `json:"id"`
	PositionID string `json:"position_id"`
	Name       string `json:"name"`
	SortOrder  int    `json:"sort_order"`
}

type ElectionWithPositions struct {
	Election  Election   `json:"election"`
	Positions []Position `json:"positions"`
}

type Ballot struct {
	ID          string    `json:"id"`
	ElectionID  string    `json:"election_id"`
	VoterToken  string    `json:"-"` // Never expose in JSON
	SubmittedAt time.Time `json:"submitted_at"`
	IPHash      *string   `json:"-"`
	UserAgent   *string   `json:"-"`
}

// Results types

type CandidateTally struct {
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
	Votes       int    `json:"votes"`
	Rank        int    `json:"rank"` // 1-indexed ranking
	Elected     bool   `json:"elected"`
	Tied        bool   `json:"tied"` // shares the last seat's vote count
}

type PositionResult struct {
	PositionID string           `json:"position_id"`
	Title      string           `json:"title"`
	Capacity   int              `json:"capacity"`
	Tallies    []CandidateTally `json:"tallies"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
