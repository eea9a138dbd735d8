package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quickly-elect/cliparse"
	"github.com/danielhkuo/quickly-elect/db"
	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/router"
	"github.com/danielhkuo/quickly-elect/seed"
	"github.com/danielhkuo/quickly-elect/session"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}
	defer dbConn.Close()

	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	if cfg.ElectionsFile != "" {
		if err := seedElections(dbConn, cfg); err != nil {
			slog.Error("seeding elections failed", "error", err, "file", cfg.ElectionsFile)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	server := http.Server{
		Handler: middleware.CORS(router.NewRouter(dbConn, cfg, sessions)),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port, "base_url", cfg.BaseURL)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// seedElections loads the elections file and prints the keys an
// operator needs to manage and share each new election.
func seedElections(conn *sql.DB, cfg cliparse.Config) error {
	file, err := seed.LoadFile(cfg.ElectionsFile)
	if err != nil {
		return err
	}

	seeded, err := seed.Apply(conn, file, cfg.AdminKeySalt, cfg.SlugSalt)
	if err != nil {
		return err
	}

	for _, s := range seeded {
		attrs := []any{"title", s.Title, "election_id", s.ElectionID, "admin_key", s.AdminKey}
		if s.ShareSlug != "" {
			attrs = append(attrs, "share_url", cfg.BaseURL+"/e/"+s.ShareSlug)
		}
		slog.Info("Seeded election", attrs...)
	}
	slog.Info("Elections file applied", "created", len(seeded), "listed", len(file.Elections))
	return nil
}
