// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/session"
	"github.com/danielhkuo/quickly-elect/testutil"
)

// ballotFixture is an open election with a single-select and a multi-select position
type ballotFixture struct {
	db       *sql.DB
	cfg      cliparse.Config
	sessions *session.Store
	handler  *BallotHandler

	electionID string
	adminKey   string
	slug       string

	chair, board          string // position IDs
	ada, grace            string // chair candidates
	alan, barbara, edsger string // board candidates, capacity 2
}

func newBallotFixture(t *testing.T, requireConfirm bool) *ballotFixture {
	t.Helper()

	f := &ballotFixture{
		db:  testutil.SetupTestDB(t),
		cfg: testutil.GetTestConfig(),
	}
	t.Cleanup(func() { f.db.Close() })

	f.sessions = session.NewStore(f.cfg.SessionTTL)
	f.handler = NewBallotHandler(f.db, f.cfg, f.sessions)

	f.electionID, f.adminKey, f.slug = testutil.CreateTestElection(t, f.db, f.cfg, "open", requireConfirm)

	f.chair = testutil.AddTestPosition(t, f.db, f.electionID, "Chair", 1, 0)
	f.ada = testutil.AddTestCandidate(t, f.db, f.chair, "Ada", 0)
	f.grace = testutil.AddTestCandidate(t, f.db, f.chair, "Grace", 1)

	f.board = testutil.AddTestPosition(t, f.db, f.electionID, "Board", 2, 1)
	f.alan = testutil.AddTestCandidate(t, f.db, f.board, "Alan", 0)
	f.barbara = testutil.AddTestCandidate(t, f.db, f.board, "Barbara", 1)
	f.edsger = testutil.AddTestCandidate(t, f.db, f.board, "Edsger", 2)

	return f
}

// login claims a username and returns the session cookie
func (f *ballotFixture) login(t *testing.T, username string) *http.Cookie {
	t.Helper()

	req := testutil.MakeFormRequest("POST", "/e/"+f.slug+"/login", url.Values{"username": {username}})
	req.SetPathValue("slug", f.slug)
	w := httptest.NewRecorder()

	f.handler.Login(w, req)

	testutil.AssertStatus(t, w, http.StatusSeeOther)
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatal("Expected session cookie after login")
	return nil
}

// click posts one candidate click and returns the response
func (f *ballotFixture) click(t *testing.T, cookie *http.Cookie, positionID, candidateID string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{"position": {positionID}, "candidate": {candidateID}}
	req := testutil.MakeFormRequest("POST", "/e/"+f.slug+"/click", form, cookie)
	req.SetPathValue("slug", f.slug)
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	w := httptest.NewRecorder()

	f.handler.Click(w, req)
	return w
}

// submit posts the ballot form
func (f *ballotFixture) submit(t *testing.T, cookie *http.Cookie, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := testutil.MakeFormRequest("POST", "/e/"+f.slug+"/ballot", form, cookie)
	req.SetPathValue("slug", f.slug)
	w := httptest.NewRecorder()

	f.handler.SubmitBallot(w, req)
	return w
}

// buttonMarkup is how a candidate button renders in a given state
func buttonMarkup(candidateID, class string) string {
	return `value="` + candidateID + `" class="` + class + `"`
}

var votesFieldPattern = regexp.MustCompile(`name="votes"[^>]*value="([^"]*)"`)

// votesField returns the unescaped value of the first votes field in a page
func votesField(t *testing.T, body string) string {
	t.Helper()

	m := votesFieldPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("No votes field in body: %s", body)
	}
	return html.UnescapeString(m[1])
}

// storedSelections returns every candidate ID recorded on any ballot
func storedSelections(t *testing.T, f *ballotFixture) map[string]bool {
	t.Helper()

	rows, err := f.db.Query(`SELECT candidate_id FROM ballot_selection`)
	if err != nil {
		t.Fatalf("Failed to query selections: %v", err)
	}
	defer rows.Close()

	got := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("Failed to scan selection: %v", err)
		}
		got[id] = true
	}
	return got
}
