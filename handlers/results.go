// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/render"
	"github.com/danielhkuo/quickly-elect/selection"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// ShowResults handles GET /e/{slug}/results
// Results are sealed until the election is closed. The ?tab= query
// picks which position is highlighted; the first one is the default.
func (h *ResultsHandler) ShowResults(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	election, err := LoadElectionBySlug(h.db, slug)
	if err == ErrElectionNotFound {
		http.Error(w, "Election not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	if election.Status != models.StatusClosed {
		http.Error(w, "Results are hidden until the election is closed", http.StatusForbidden)
		return
	}

	results, err := ComputeTallies(h.db, election.ID)
	if err != nil {
		slog.Error("failed to compute tallies", "error", err, "election_id", election.ID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	ballotCount, err := countBallots(h.db, election.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	tabs := make([]selection.Tab, len(results))
	for i, res := range results {
		tabs[i] = selection.Tab{ID: res.PositionID, Label: res.Title}
	}
	tabSet := selection.NewTabSet(tabs)
	tabSet.Activate(r.URL.Query().Get("tab"))

	err = render.Results(w, render.ResultsView{
		Election:    election,
		Tabs:        tabSet,
		Results:     results,
		BallotCount: ballotCount,
	})
	if err != nil {
		slog.Error("failed to render results", "error", err)
	}
}

// GetResults handles GET /elections/{slug}/results
// JSON form of ShowResults.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	election, err := LoadElectionBySlug(h.db, slug)
	if err == ErrElectionNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Results are sealed while the election is open
	if election.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election is closed")
		return
	}

	results, err := ComputeTallies(h.db, election.ID)
	if err != nil {
		slog.Error("failed to compute tallies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ballotCount, err := countBallots(h.db, election.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"election":     election,
		"positions":    results,
		"ballot_count": ballotCount,
	})
}

// GetBallotCount handles GET /elections/{slug}/ballot-count
// Visible while the election is open.
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	election, err := LoadElectionBySlug(h.db, slug)
	if err == ErrElectionNotFound {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	count, err := countBallots(h.db, election.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"ballot_count": count,
	})
}
