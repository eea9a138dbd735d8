// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/danielhkuo/quickly-elect/models"
)

// ComputeTallies counts votes per candidate for every position of an election.
// Within a position candidates are ranked by votes, ties keep ballot order.
// The top Capacity candidates with at least one vote are marked elected,
// unless a tie straddles the last seat: then every candidate on the
// boundary vote count is marked tied and none of them is elected.
func ComputeTallies(db *sql.DB, electionID string) ([]models.PositionResult, error) {
	positions, err := LoadPositions(db, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	votes, err := getCandidateVotes(db, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate votes: %w", err)
	}

	results := make([]models.PositionResult, 0, len(positions))
	for _, pos := range positions {
		tallies := make([]models.CandidateTally, len(pos.Candidates))
		order := make(map[string]int, len(pos.Candidates))
		for i, c := range pos.Candidates {
			tallies[i] = models.CandidateTally{
				CandidateID: c.ID,
				Name:        c.Name,
				Votes:       votes[c.ID],
			}
			order[c.ID] = i
		}

		sort.SliceStable(tallies, func(i, j int) bool {
			a, b := tallies[i], tallies[j]
			if a.Votes != b.Votes {
				return a.Votes > b.Votes
			}
			return order[a.CandidateID] < order[b.CandidateID]
		})

		for i := range tallies {
			tallies[i].Rank = i + 1 // 1-indexed ranking
			tallies[i].Elected = i < pos.Capacity && tallies[i].Votes > 0
		}
		markBoundaryTie(tallies, pos.Capacity)

		results = append(results, models.PositionResult{
			PositionID: pos.ID,
			Title:      pos.Title,
			Capacity:   pos.Capacity,
			Tallies:    tallies,
		})
	}

	return results, nil
}

// markBoundaryTie flags candidates sharing the vote count of the last seat
// when that count also appears below the cut
func markBoundaryTie(tallies []models.CandidateTally, capacity int) {
	if capacity < 1 || len(tallies) <= capacity {
		return
	}
	boundary := tallies[capacity-1].Votes
	if boundary == 0 || tallies[capacity].Votes != boundary {
		return
	}
	for i := range tallies {
		if tallies[i].Votes == boundary {
			tallies[i].Tied = true
			tallies[i].Elected = false
		}
	}
}

// getCandidateVotes retrieves the number of ballots selecting each candidate
func getCandidateVotes(db *sql.DB, electionID string) (map[string]int, error) {
	rows, err := db.Query(`
		SELECT bs.candidate_id, COUNT(*)
		FROM ballot_selection bs
		JOIN ballot b ON bs.ballot_id = b.id
		WHERE b.election_id = $1
		GROUP BY bs.candidate_id
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := make(map[string]int)
	for rows.Next() {
		var candidateID string
		var n int
		if err := rows.Scan(&candidateID, &n); err != nil {
			return nil, err
		}
		votes[candidateID] = n
	}

	return votes, rows.Err()
}
