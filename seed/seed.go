// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package seed creates elections from a YAML file at startup.
package seed

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-elect/auth"
	"github.com/danielhkuo/quickly-elect/models"
)

var ErrNoElections = errors.New("elections file contains no elections")

// File is the YAML layout of an elections file:
//
//	elections:
//	  - title: Student Council 2025
//	    open: true
//	    positions:
//	      - title: President
//	        capacity: 1
//	        candidates: [Ada, Grace]
type File struct {
	Elections []Election `yaml:"elections"`
}

type Election struct {
	Title          string     `yaml:"title"`
	Description    string     `yaml:"description"`
	RequireConfirm bool       `yaml:"require_confirm"`
	Open           bool       `yaml:"open"`
	Positions      []Position `yaml:"positions"`
}

type Position struct {
	Title      string   `yaml:"title"`
	Capacity   int      `yaml:"capacity"`
	Candidates []string `yaml:"candidates"`
}

// Seeded describes one election created from the file
type Seeded struct {
	ElectionID string
	Title      string
	AdminKey   string
	ShareSlug  string
}

// Parse decodes and validates an elections file
func Parse(data []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("failed to parse elections file: %w", err)
	}
	if len(f.Elections) == 0 {
		return File{}, ErrNoElections
	}

	for i, e := range f.Elections {
		if strings.TrimSpace(e.Title) == "" {
			return File{}, fmt.Errorf("election %d: title is required", i+1)
		}
		for j, p := range e.Positions {
			if strings.TrimSpace(p.Title) == "" {
				return File{}, fmt.Errorf("election %q position %d: title is required", e.Title, j+1)
			}
			if p.Capacity == 0 {
				f.Elections[i].Positions[j].Capacity = 1
			} else if p.Capacity < 0 {
				return File{}, fmt.Errorf("election %q position %q: capacity must be at least 1", e.Title, p.Title)
			}
		}
		if e.Open && !hasCandidates(e) {
			return File{}, fmt.Errorf("election %q: every position needs a candidate before it can open", e.Title)
		}
	}

	return f, nil
}

func hasCandidates(e Election) bool {
	if len(e.Positions) == 0 {
		return false
	}
	for _, p := range e.Positions {
		if len(p.Candidates) == 0 {
			return false
		}
	}
	return true
}

// LoadFile reads and parses an elections file
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to read elections file: %w", err)
	}
	return Parse(data)
}

// Apply inserts every election in the file. Elections whose title already
// exists are skipped so restarting with the same file is harmless.
func Apply(db *sql.DB, f File, adminSalt, slugSalt string) ([]Seeded, error) {
	var seeded []Seeded
	for _, e := range f.Elections {
		var exists bool
		if err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM election WHERE title = $1)`, e.Title).Scan(&exists); err != nil {
			return seeded, fmt.Errorf("failed to check election %q: %w", e.Title, err)
		}
		if exists {
			continue
		}

		s, err := insertElection(db, e, adminSalt, slugSalt)
		if err != nil {
			return seeded, fmt.Errorf("failed to seed election %q: %w", e.Title, err)
		}
		seeded = append(seeded, s)
	}
	return seeded, nil
}

func insertElection(db *sql.DB, e Election, adminSalt, slugSalt string) (Seeded, error) {
	electionID, err := auth.GenerateID(16)
	if err != nil {
		return Seeded{}, err
	}

	status := models.StatusDraft
	var slug *string
	if e.Open {
		status = models.StatusOpen
		s := auth.GenerateShareSlug(electionID, slugSalt)
		slug = &s
	}

	tx, err := db.Begin()
	if err != nil {
		return Seeded{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO election (id, title, description, status, require_confirm, share_slug, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, electionID, e.Title, e.Description, status, e.RequireConfirm, slug, time.Now())
	if err != nil {
		return Seeded{}, err
	}

	for i, p := range e.Positions {
		positionID, err := auth.GenerateID(12)
		if err != nil {
			return Seeded{}, err
		}
		_, err = tx.Exec(`
			INSERT INTO position (id, election_id, title, capacity, sort_order)
			VALUES ($1, $2, $3, $4, $5)
		`, positionID, electionID, p.Title, p.Capacity, i)
		if err != nil {
			return Seeded{}, err
		}

		for j, name := range p.Candidates {
			candidateID, err := auth.GenerateID(12)
			if err != nil {
				return Seeded{}, err
			}
			_, err = tx.Exec(`
				INSERT INTO candidate (id, position_id, name, sort_order)
				VALUES ($1, $2, $3, $4)
			`, candidateID, positionID, name, j)
			if err != nil {
				return Seeded{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Seeded{}, err
	}

	out := Seeded{
		ElectionID: electionID,
		Title:      e.Title,
		AdminKey:   auth.GenerateAdminKey(electionID, adminSalt),
	}
	if slug != nil {
		out.ShareSlug = *slug
	}
	return out, nil
}
