// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/handlers"
	"github.com/danielhkuo/quickly-elect/metrics"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/render"
	"github.com/danielhkuo/quickly-elect/session"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, sessions *session.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	electionHandler := handlers.NewElectionHandler(db, cfg)
	ballotHandler := handlers.NewBallotHandler(db, cfg, sessions)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /static/", render.Static())

	// Election management (admin operations)
	mux.HandleFunc("POST /elections", middleware.WithLogging(electionHandler.CreateElection))
	mux.HandleFunc("GET /elections/{id}/admin", middleware.WithLogging(electionHandler.GetElectionAdmin))
	mux.HandleFunc("POST /elections/{id}/positions", middleware.WithLogging(electionHandler.AddPosition))
	mux.HandleFunc("POST /elections/{id}/positions/{pid}/candidates", middleware.WithLogging(electionHandler.AddCandidate))
	mux.HandleFunc("POST /elections/{id}/open", middleware.WithLogging(electionHandler.OpenElection))
	mux.HandleFunc("POST /elections/{id}/close", middleware.WithLogging(electionHandler.CloseElection))
	mux.HandleFunc("GET /elections/{id}/export", middleware.WithLogging(electionHandler.ExportResults))

	// Public JSON
	mux.HandleFunc("GET /elections/{slug}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /elections/{slug}/ballot-count", middleware.WithLogging(resultsHandler.GetBallotCount))

	// Ballot pages
	mux.HandleFunc("GET /e/{slug}", middleware.WithLogging(ballotHandler.ShowBallot))
	mux.HandleFunc("POST /e/{slug}/login", middleware.WithLogging(ballotHandler.Login))
	mux.HandleFunc("POST /e/{slug}/click", middleware.WithLogging(ballotHandler.Click))
	mux.HandleFunc("POST /e/{slug}/ballot", middleware.WithLogging(ballotHandler.SubmitBallot))
	mux.HandleFunc("GET /e/{slug}/results", middleware.WithLogging(resultsHandler.ShowResults))
	mux.HandleFunc("POST /logout", middleware.WithLogging(ballotHandler.Logout))
	mux.HandleFunc("GET /memes/{id}", middleware.WithLogging(handlers.RevealMeme))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-elect v1"))
	})

	return mux
}
