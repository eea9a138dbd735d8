// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
)

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  ":memory:",
		DatabaseType: db.TypeSQLite,
		AdminKeySalt: "test-admin-salt",
		SlugSalt:     "test-slug-salt",
		BaseURL:      "https://vote.example.com",
		SessionTTL:   time.Hour,
	}
}

// CreateTestElection creates an election and returns its ID, admin key and share slug.
// status should be "draft", "open", or "closed"
func CreateTestElection(t *testing.T, db *sql.DB, cfg cliparse.Config, status string, requireConfirm bool) (electionID, adminKey, shareSlug string) {
	t.Helper()

	electionID, _ = auth.GenerateID(16)
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(electionID, cfg.SlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now()
		closedAt = &now
	}

	_, err := db.Exec(`
		INSERT INTO election (id, title, description, status, require_confirm, share_slug, closed_at, created_at)
		VALUES ($1, 'Test Election', 'A test election', $2, $3, $4, $5, $6)
	`, electionID, status, requireConfirm, slug, closedAt, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey, shareSlug
}

// AddTestPosition adds a position and returns its ID
func AddTestPosition(t *testing.T, db *sql.DB, electionID, title string, capacity, order int) string {
	t.Helper()

	positionID, _ := auth.GenerateID(12)
	_, err := db.Exec(`
		INSERT INTO position (id, election_id, title, capacity, sort_order)
		VALUES ($1, $2, $3, $4, $5)
	`, positionID, electionID, title, capacity, order)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	return positionID
}

// AddTestCandidate adds a candidate and returns its ID
func AddTestCandidate(t *testing.T, db *sql.DB, positionID, name string, order int) string {
	t.Helper()

	candidateID, _ := auth.GenerateID(12)
	_, err := db.Exec(`
		INSERT INTO candidate (id, position_id, name, sort_order)
		VALUES ($1, $2, $3, $4)
	`, candidateID, positionID, name, order)
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// SubmitTestBallot records a ballot directly and returns its ID
func SubmitTestBallot(t *testing.T, db *sql.DB, electionID string, candidateIDs ...string) string {
	t.Helper()

	voterToken, _ := auth.GenerateVoterToken()
	ballotID, _ := auth.GenerateID(16)
	_, err := db.Exec(`
		INSERT INTO ballot (id, election_id, voter_token, submitted_at)
		VALUES ($1, $2, $3, $4)
	`, ballotID, electionID, voterToken, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for _, candidateID := range candidateIDs {
		_, err := db.Exec(`
			INSERT INTO ballot_selection (ballot_id, candidate_id) VALUES ($1, $2)
		`, ballotID, candidateID)
		if err != nil {
			t.Fatalf("Failed to create test selection: %v", err)
		}
	}

	return ballotID
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with a urlencoded form body
func MakeFormRequest(method, path string, form url.Values, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
