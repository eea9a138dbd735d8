// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-elect/middleware"
	"github.com/danielhkuo/quickly-elect/models"
)

var exportHeader = []string{"position", "capacity", "rank", "candidate", "votes", "elected", "tied"}

// ExportResults handles GET /elections/{id}/export
// Admins can download tallies at any stage, including while voting is open.
func (h *ElectionHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	results, err := ComputeTallies(h.db, election.ID)
	if err != nil {
		slog.Error("failed to compute tallies", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s Results.csv"`, exportFilename(election.Title)))

	if err := WriteResultsCSV(w, results); err != nil {
		slog.Error("failed to write results csv", "error", err, "election_id", election.ID)
	}
}

// WriteResultsCSV writes one row per candidate, grouped by position in ballot order
func WriteResultsCSV(out io.Writer, results []models.PositionResult) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, pos := range results {
		for _, tally := range pos.Tallies {
			row := []string{
				pos.Title,
				strconv.Itoa(pos.Capacity),
				strconv.Itoa(tally.Rank),
				tally.Name,
				strconv.Itoa(tally.Votes),
				strconv.FormatBool(tally.Elected),
				strconv.FormatBool(tally.Tied),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportFilename keeps a title safe for a quoted Content-Disposition value
func exportFilename(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '"', '\\', '/', '\r', '\n':
			return '_'
		}
		return r
	}, title)
}
