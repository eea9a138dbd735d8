// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload   = errors.New("invalid vote payload")
	ErrUnknownCandidate = errors.New("unknown candidate")
	ErrOverCapacity     = errors.New("too many candidates selected")
	ErrDuplicateVote    = errors.New("candidate selected more than once")
)

// ParsePayload decodes a submitted JSON array of candidate IDs
func ParsePayload(raw string) ([]string, error) {
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return ids, nil
}

// ValidatePayload checks submitted IDs against the page layout.
// Every ID must belong to one of the page's positions, appear once,
// and no position may receive more votes than its capacity.
// It returns the owning position ID for each candidate.
func ValidatePayload(pg *Page, ids []string) (map[string]string, error) {
	owner := make(map[string]*Position)
	for _, p := range pg.Positions {
		for _, b := range p.Buttons {
			owner[b.CandidateID] = p
		}
	}

	counts := make(map[string]int)
	result := make(map[string]string, len(ids))
	for _, id := range ids {
		p, ok := owner[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCandidate, id)
		}
		if _, dup := result[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateVote, id)
		}
		counts[p.ID]++
		if counts[p.ID] > p.Capacity {
			return nil, fmt.Errorf("%w: %s allows %d", ErrOverCapacity, p.Title, p.Capacity)
		}
		result[id] = p.ID
	}

	return result, nil
}
