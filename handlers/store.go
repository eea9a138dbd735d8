// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-elect/models"
	"github.com/danielhkuo/quickly-elect/selection"
)

var ErrElectionNotFound = errors.New("election not found")

const electionColumns = `id, title, description, status, require_confirm, share_slug, closed_at, created_at`

func scanElection(row *sql.Row) (models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Status, &e.RequireConfirm,
		&e.ShareSlug, &e.ClosedAt, &e.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return e, ErrElectionNotFound
	}
	return e, err
}

// LoadElectionByID fetches an election by its ID
func LoadElectionByID(db *sql.DB, electionID string) (models.Election, error) {
	return scanElection(db.QueryRow(`SELECT `+electionColumns+` FROM election WHERE id = $1`, electionID))
}

// LoadElectionBySlug fetches an election by its share slug
func LoadElectionBySlug(db *sql.DB, slug string) (models.Election, error) {
	return scanElection(db.QueryRow(`SELECT `+electionColumns+` FROM election WHERE share_slug = $1`, slug))
}

// LoadPositions returns an election's positions and candidates in ballot order
func LoadPositions(db *sql.DB, electionID string) ([]models.Position, error) {
	rows, err := db.Query(`
		SELECT p.id, p.title, p.capacity, p.sort_order, c.id, c.name, c.sort_order
		FROM position p
		LEFT JOIN candidate c ON c.position_id = p.id
		WHERE p.election_id = $1
		ORDER BY p.sort_order, p.id, c.sort_order, c.id
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var pos models.Position
		var candID, candName sql.NullString
		var candOrder sql.NullInt64
		if err := rows.Scan(&pos.ID, &pos.Title, &pos.Capacity, &pos.SortOrder, &candID, &candName, &candOrder); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}

		n := len(positions)
		if n == 0 || positions[n-1].ID != pos.ID {
			pos.ElectionID = electionID
			pos.Candidates = []models.Candidate{}
			positions = append(positions, pos)
			n++
		}
		if candID.Valid {
			positions[n-1].Candidates = append(positions[n-1].Candidates, models.Candidate{
				ID:         candID.String,
				PositionID: pos.ID,
				Name:       candName.String,
				SortOrder:  int(candOrder.Int64),
			})
		}
	}

	return positions, rows.Err()
}

// BuildPage creates a fresh ballot page with every candidate selectable
func BuildPage(positions []models.Position) *selection.Page {
	pg := &selection.Page{Positions: make([]*selection.Position, 0, len(positions))}
	for _, pos := range positions {
		buttons := make([]*selection.Button, len(pos.Candidates))
		for i, c := range pos.Candidates {
			buttons[i] = &selection.Button{CandidateID: c.ID, Label: c.Name}
		}
		pg.Positions = append(pg.Positions, selection.NewPosition(pos.ID, pos.Title, pos.Capacity, buttons))
	}
	return pg
}
