// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

// authorize checks the admin key and loads the election.
// It writes the error response itself and returns ok=false on failure.
func (h *ElectionHandler) authorize(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return models.Election{}, false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return models.Election{}, false
	}

	election, err := LoadElectionByID(h.db, electionID)
	if err == ErrElectionNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Election{}, false
	}

	return election, true
}

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	electionID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate election ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO election (id, title, description, status, require_confirm, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Title, req.Description, models.StatusDraft, req.RequireConfirm, time.Now())
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "title", req.Title)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt),
	})
}

// GetElectionAdmin handles GET /elections/{id}/admin
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	positions, err := LoadPositions(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load positions", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ElectionWithPositions{
		Election:  election,
		Positions: positions,
	})
}

// AddPosition handles POST /elections/{id}/positions
func (h *ElectionHandler) AddPosition(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req models.AddPositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Capacity < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "capacity must be at least 1")
		return
	}

	if election.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add positions to non-draft election")
		return
	}

	positionID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate position ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO position (id, election_id, title, capacity, sort_order)
		VALUES ($1, $2, $3, $4, (SELECT COUNT(*) FROM position WHERE election_id = $2))
	`, positionID, election.ID, req.Title, req.Capacity)
	if err != nil {
		slog.Error("failed to insert position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create position")
		return
	}

	slog.Info("position added", "election_id", election.ID, "position_id", positionID, "capacity", req.Capacity)

	middleware.JSONResponse(w, http.StatusCreated, models.AddPositionResponse{
		PositionID: positionID,
	})
}

// AddCandidate handles POST /elections/{id}/positions/{pid}/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	positionID := r.PathValue("pid")

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	if election.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add candidates to non-draft election")
		return
	}

	var exists bool
	err := h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM position WHERE id = $1 AND election_id = $2)
	`, positionID, election.ID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	candidateID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate candidate ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidate (id, position_id, name, sort_order)
		VALUES ($1, $2, $3, (SELECT COUNT(*) FROM candidate WHERE position_id = $2))
	`, candidateID, positionID, req.Name)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate added", "election_id", election.ID, "position_id", positionID, "candidate_id", candidateID)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// OpenElection handles POST /elections/{id}/open
func (h *ElectionHandler) OpenElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not in draft status")
		return
	}

	positions, err := LoadPositions(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if len(positions) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election must have at least 1 position")
		return
	}
	for _, pos := range positions {
		if len(pos.Candidates) == 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Position "+pos.Title+" has no candidates")
			return
		}
	}

	shareSlug := auth.GenerateShareSlug(election.ID, h.cfg.SlugSalt)

	_, err = h.db.Exec(`
		UPDATE election SET status = $1, share_slug = $2 WHERE id = $3
	`, models.StatusOpen, shareSlug, election.ID)
	if err != nil {
		slog.Error("failed to open election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open election")
		return
	}

	slog.Info("election opened", "election_id", election.ID, "share_slug", shareSlug)

	middleware.JSONResponse(w, http.StatusOK, models.OpenElectionResponse{
		ShareSlug: shareSlug,
		ShareURL:  strings.TrimRight(h.cfg.BaseURL, "/") + "/e/" + shareSlug,
	})
}

// CloseElection handles POST /elections/{id}/close
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	closedAt := time.Now()
	_, err := h.db.Exec(`
		UPDATE election SET status = $1, closed_at = $2 WHERE id = $3
	`, models.StatusClosed, closedAt, election.ID)
	if err != nil {
		slog.Error("failed to close election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	ballotCount, err := countBallots(h.db, election.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("election closed", "election_id", election.ID, "ballot_count", ballotCount)

	middleware.JSONResponse(w, http.StatusOK, models.CloseElectionResponse{
		ClosedAt:    closedAt,
		BallotCount: ballotCount,
	})
}

func countBallots(db *sql.DB, electionID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM ballot WHERE election_id = $1`, electionID).Scan(&n)
	return n, err
}
