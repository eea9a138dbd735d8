// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/metrics"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/render"
	"github.com/danielhkuo/quickly-elect/selection"
	"github.com/danielhkuo/quickly-elect/session"
)

var (
	// ErrAlreadyVoted is returned when a voter submits a second ballot
	ErrAlreadyVoted = errors.New("voter has already cast a ballot")
	// ErrNameInUse is returned when a live session already holds a username
	ErrNameInUse = errors.New("username is held by another session")
)

type BallotHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sessions *session.Store
}

func NewBallotHandler(db *sql.DB, cfg cliparse.Config, sessions *session.Store) *BallotHandler {
	return &BallotHandler{db: db, cfg: cfg, sessions: sessions}
}

// currentSession returns the caller's session if it belongs to the election
func (h *BallotHandler) currentSession(r *http.Request, electionID string) (*session.Session, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, false
	}
	s, ok := h.sessions.Get(cookie.Value)
	if !ok || (electionID != "" && s.ElectionID != electionID) {
		return nil, false
	}
	return s, true
}

// openElection loads an election by slug and checks it accepts votes.
// It writes the error response itself and returns ok=false on failure.
func (h *BallotHandler) openElection(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	slug := r.PathValue("slug")
	election, err := LoadElectionBySlug(h.db, slug)
	if err == ErrElectionNotFound {
		http.Error(w, "Election not found", http.StatusNotFound)
		return election, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err, "slug", slug)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return election, false
	}
	if election.Status == models.StatusClosed {
		http.Redirect(w, r, "/e/"+slug+"/results", http.StatusSeeOther)
		return election, false
	}
	if election.Status != models.StatusOpen {
		http.Error(w, "Election is not open for voting", http.StatusConflict)
		return election, false
	}
	return election, true
}

// renderBallot writes the full ballot page for a session
func (h *BallotHandler) renderBallot(w http.ResponseWriter, election models.Election, s *session.Session) {
	err := s.Do(func(pg *selection.Page) error {
		payload, err := pg.Payload()
		if err != nil {
			return err
		}
		return render.Ballot(w, render.BallotView{
			Election:  election,
			Slug:      s.ShareSlug,
			Username:  s.Username,
			CSRFToken: s.CSRFToken,
			Page:      pg,
			Payload:   payload,
		})
	})
	if err != nil {
		slog.Error("failed to render ballot", "error", err, "election_id", election.ID)
	}
}

// ShowBallot handles GET /e/{slug}
// Shows the login form, or a freshly rendered ballot for a logged-in voter.
func (h *BallotHandler) ShowBallot(w http.ResponseWriter, r *http.Request) {
	election, ok := h.openElection(w, r)
	if !ok {
		return
	}

	s, ok := h.currentSession(r, election.ID)
	if !ok {
		if err := render.Login(w, render.LoginView{Election: election, Slug: r.PathValue("slug")}); err != nil {
			slog.Error("failed to render login", "error", err)
		}
		return
	}

	voted, err := hasVoted(h.db, election.ID, s.VoterToken)
	if err != nil {
		slog.Error("failed to check ballot", "error", err, "election_id", election.ID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if voted {
		h.renderAlreadyVoted(w, election, http.StatusOK)
		return
	}

	positions, err := LoadPositions(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load positions", "error", err, "election_id", election.ID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	// A reload always starts from server-rendered state
	s.Reset(BuildPage(positions))
	h.renderBallot(w, election, s)
}

// Login handles POST /e/{slug}/login
func (h *BallotHandler) Login(w http.ResponseWriter, r *http.Request) {
	election, ok := h.openElection(w, r)
	if !ok {
		return
	}
	slug := r.PathValue("slug")

	// Repeated submits of the login form reuse the live session
	if _, ok := h.currentSession(r, election.ID); ok {
		http.Redirect(w, r, "/e/"+slug, http.StatusSeeOther)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	if len(username) < 2 || len(username) > 50 {
		h.renderLoginError(w, election, slug, http.StatusBadRequest, "Name must be 2-50 characters")
		return
	}

	csrfToken, err := auth.GenerateCSRFToken()
	if err != nil {
		slog.Error("failed to generate csrf token", "error", err)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	voterToken, err := h.claimVoter(election.ID, username)
	switch {
	case errors.Is(err, ErrAlreadyVoted):
		h.renderLoginError(w, election, slug, http.StatusConflict, "That name has already voted")
		return
	case errors.Is(err, ErrNameInUse):
		h.renderLoginError(w, election, slug, http.StatusConflict, "That name is already taken")
		return
	case err != nil:
		slog.Error("failed to claim voter", "error", err, "election_id", election.ID)
		http.Error(w, "Failed to log in", http.StatusInternalServerError)
		return
	}

	positions, err := LoadPositions(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load positions", "error", err, "election_id", election.ID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}

	s := h.sessions.Create(election.ID, slug, username, voterToken, csrfToken)
	s.Reset(BuildPage(positions))
	metrics.SetSessionsActive(h.sessions.Len())

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.cfg.SessionTTL.Seconds()),
	})

	slog.Info("voter logged in", "election_id", election.ID, "username", username)

	http.Redirect(w, r, "/e/"+slug, http.StatusSeeOther)
}

// claimVoter returns the voter token for a username. A new name gets a
// fresh token. A known name that has not voted and has no live session
// gets its old token back, so a lost session never locks a voter out.
func (h *BallotHandler) claimVoter(electionID, username string) (string, error) {
	voterToken, err := auth.GenerateVoterToken()
	if err != nil {
		return "", err
	}

	_, err = h.db.Exec(`
		INSERT INTO voter (election_id, username, voter_token, created_at)
		VALUES ($1, $2, $3, $4)
	`, electionID, username, voterToken, time.Now())
	if err == nil {
		return voterToken, nil
	}
	if !db.IsUniqueViolation(err) {
		return "", err
	}

	err = h.db.QueryRow(`
		SELECT voter_token FROM voter WHERE election_id = $1 AND username = $2
	`, electionID, username).Scan(&voterToken)
	if err != nil {
		return "", fmt.Errorf("failed to load voter: %w", err)
	}

	voted, err := hasVoted(h.db, electionID, voterToken)
	if err != nil {
		return "", err
	}
	if voted {
		return "", ErrAlreadyVoted
	}
	if h.sessions.HasVoter(voterToken) {
		return "", ErrNameInUse
	}

	slog.Info("voter session reissued", "election_id", electionID, "username", username)
	return voterToken, nil
}

func (h *BallotHandler) renderLoginError(w http.ResponseWriter, election models.Election, slug string, status int, message string) {
	writeHTMLStatus(w, status)
	if err := render.Login(w, render.LoginView{Election: election, Slug: slug, Error: message}); err != nil {
		slog.Error("failed to render login", "error", err)
	}
}

// Click handles POST /e/{slug}/click
// Applies one candidate click and returns the updated position fragment
// with an out-of-band votes field for HX-Request callers, or the whole
// ballot otherwise.
func (h *BallotHandler) Click(w http.ResponseWriter, r *http.Request) {
	election, ok := h.openElection(w, r)
	if !ok {
		return
	}

	s, ok := h.currentSession(r, election.ID)
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	positionID := r.FormValue("position")
	candidateID := r.FormValue("candidate")

	var changed bool
	var clicked *selection.Position
	err := s.Do(func(pg *selection.Page) error {
		var err error
		changed, err = pg.Click(positionID, candidateID)
		clicked = pg.Position(positionID)
		return err
	})
	if errors.Is(err, selection.ErrPositionNotFound) || errors.Is(err, selection.ErrCandidateNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	metrics.RecordClick(changed)

	if middleware.IsHTMX(r) {
		err := s.Do(func(pg *selection.Page) error {
			payload, err := pg.Payload()
			if err != nil {
				return err
			}
			return render.Click(w, render.ClickView{
				PositionView: render.PositionView{Slug: s.ShareSlug, Position: clicked},
				Payload:      payload,
			})
		})
		if err != nil {
			slog.Error("failed to render position", "error", err)
		}
		return
	}

	h.renderBallot(w, election, s)
}

// SubmitBallot handles POST /e/{slug}/ballot
func (h *BallotHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	election, ok := h.openElection(w, r)
	if !ok {
		return
	}

	s, ok := h.currentSession(r, election.ID)
	if !ok {
		http.Error(w, "Not logged in", http.StatusUnauthorized)
		return
	}

	voted, err := hasVoted(h.db, election.ID, s.VoterToken)
	if err != nil {
		slog.Error("failed to check ballot", "error", err, "election_id", election.ID)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if voted {
		metrics.RecordRejectedBallot(rejectReason(ErrAlreadyVoted))
		h.renderAlreadyVoted(w, election, http.StatusConflict)
		return
	}

	positions, err := LoadPositions(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load positions", "error", err)
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	layout := BuildPage(positions)

	// The ballot is what the voter's page shows right now
	var raw string
	err = s.Do(func(pg *selection.Page) error {
		raw, err = pg.Payload()
		return err
	})
	if err != nil {
		slog.Error("failed to assemble payload", "error", err)
		http.Error(w, "Failed to submit ballot", http.StatusInternalServerError)
		return
	}

	ids, err := selection.ParsePayload(raw)
	if err == nil {
		_, err = selection.ValidatePayload(layout, ids)
	}
	if err != nil {
		metrics.RecordRejectedBallot(rejectReason(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// A votes field that disagrees with the page is stale or forged.
	// The voter confirms the real selection before anything is recorded.
	votes := r.FormValue("votes")
	stale := r.Form.Has("votes") && votes != raw
	if stale {
		slog.Warn("ballot payload does not match session", "election_id", election.ID, "username", s.Username)
	}

	if stale || (election.RequireConfirm && r.FormValue("confirm") != "yes") {
		view := render.ConfirmView{
			Election: election,
			Slug:     s.ShareSlug,
			Payload:  raw,
			Choices:  choicesFor(layout, ids),
		}
		if stale {
			view.Notice = "Your selection changed since this page was loaded."
		}
		err := render.Confirm(w, view)
		if err != nil {
			slog.Error("failed to render confirmation", "error", err)
		}
		return
	}

	ballotID, err := h.recordBallot(r, election.ID, s.VoterToken, ids)
	if errors.Is(err, ErrAlreadyVoted) {
		metrics.RecordRejectedBallot(rejectReason(err))
		h.renderAlreadyVoted(w, election, http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("failed to record ballot", "error", err, "election_id", election.ID)
		http.Error(w, "Failed to submit ballot", http.StatusInternalServerError)
		return
	}
	metrics.RecordBallot()

	slog.Info("ballot submitted", "election_id", election.ID, "ballot_id", ballotID, "selections", len(ids))

	writeHTMLStatus(w, http.StatusCreated)
	if err := render.Submitted(w, render.SubmittedView{Election: election, Message: "Your ballot has been cast."}); err != nil {
		slog.Error("failed to render submitted page", "error", err)
	}
}

func (h *BallotHandler) renderAlreadyVoted(w http.ResponseWriter, election models.Election, status int) {
	writeHTMLStatus(w, status)
	if err := render.Submitted(w, render.SubmittedView{Election: election, Message: "You have already voted."}); err != nil {
		slog.Error("failed to render submitted page", "error", err)
	}
}

func hasVoted(db *sql.DB, electionID, voterToken string) (bool, error) {
	var voted bool
	err := db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM ballot WHERE election_id = $1 AND voter_token = $2)
	`, electionID, voterToken).Scan(&voted)
	return voted, err
}

// recordBallot stores the ballot and its selections in one transaction.
// The unique (election, voter) constraint turns a racing second submit
// into ErrAlreadyVoted.
func (h *BallotHandler) recordBallot(r *http.Request, electionID, voterToken string, candidateIDs []string) (string, error) {
	ballotID, err := auth.GenerateID(16)
	if err != nil {
		return "", err
	}

	tx, err := h.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO ballot (id, election_id, voter_token, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ballotID, electionID, voterToken, time.Now(), auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt), r.UserAgent())
	if db.IsUniqueViolation(err) {
		return "", ErrAlreadyVoted
	}
	if err != nil {
		return "", err
	}

	for _, candidateID := range candidateIDs {
		_, err = tx.Exec(`
			INSERT INTO ballot_selection (ballot_id, candidate_id) VALUES ($1, $2)
		`, ballotID, candidateID)
		if err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return ballotID, nil
}

// Logout handles POST /logout
// The anti-forgery token must match the one rendered into the session's page.
func (h *BallotHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.currentSession(r, "")
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	if err := auth.ValidateCSRFToken(s.CSRFToken, r.Header.Get("X-CSRF-Token")); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid anti-forgery token")
		return
	}

	h.sessions.Delete(s.ID)
	metrics.SetSessionsActive(h.sessions.Len())

	http.SetCookie(w, &http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	slog.Info("voter logged out", "election_id", s.ElectionID, "username", s.Username)
	w.WriteHeader(http.StatusNoContent)
}

func choicesFor(layout *selection.Page, ids []string) []render.Choice {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}

	choices := []render.Choice{}
	for _, p := range layout.Positions {
		for _, b := range p.Buttons {
			if selected[b.CandidateID] {
				choices = append(choices, render.Choice{Position: p.Title, Candidate: b.Label})
			}
		}
	}
	return choices
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, selection.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, selection.ErrUnknownCandidate):
		return "unknown_candidate"
	case errors.Is(err, selection.ErrOverCapacity):
		return "over_capacity"
	case errors.Is(err, selection.ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, ErrAlreadyVoted):
		return "already_voted"
	}
	return "other"
}

func writeHTMLStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
}
