// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
)

// State is the display state of a candidate button.
type State int

const (
	Selectable State = iota
	Selected
	Disabled
)

// CSS classes that encode a button's state in rendered HTML
const (
	ClassSelectable = "vote-btn"
	ClassSelected   = "vote-btn-selected"
	ClassDisabled   = "vote-btn-disabled"
)

func (s State) String() string {
	switch s {
	case Selectable:
		return "selectable"
	case Selected:
		return "selected"
	case Disabled:
		return "disabled"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Class returns the CSS class for the state
func (s State) Class() string {
	switch s {
	case Selected:
		return ClassSelected
	case Disabled:
		return ClassDisabled
	}
	return ClassSelectable
}

// ParseState maps a CSS class back to its state.
// Unrecognized classes report ok=false.
func ParseState(class string) (State, bool) {
	switch class {
	case ClassSelectable:
		return Selectable, true
	case ClassSelected:
		return Selected, true
	case ClassDisabled:
		return Disabled, true
	}
	return Selectable, false
}

// Button is one candidate control within a position
type Button struct {
	CandidateID string
	Label       string
	State       State
}

// Position groups the buttons for one electable office
type Position struct {
	ID       string
	Title    string
	Capacity int
	Buttons  []*Button
}

// NewPosition builds a position from server-rendered buttons.
// A multi-select position rendered at capacity has its remaining
// selectable buttons disabled so the page starts consistent.
func NewPosition(id, title string, capacity int, buttons []*Button) *Position {
	if capacity < 1 {
		capacity = 1
	}
	p := &Position{ID: id, Title: title, Capacity: capacity, Buttons: buttons}
	if capacity > 1 && p.Count() >= capacity {
		p.setAll(Selectable, Disabled)
	}
	return p
}

// Count returns the number of selected buttons, scanning every time
func (p *Position) Count() int {
	n := 0
	for _, b := range p.Buttons {
		if b.State == Selected {
			n++
		}
	}
	return n
}

// Button returns the button for a candidate, or nil
func (p *Position) Button(candidateID string) *Button {
	for _, b := range p.Buttons {
		if b.CandidateID == candidateID {
			return b
		}
	}
	return nil
}

// Click applies a click on the candidate's button and reports whether
// any button changed state. Clicks on disabled or unknown buttons are
// ignored.
func (p *Position) Click(candidateID string) bool {
	b := p.Button(candidateID)
	if b == nil {
		return false
	}

	switch b.State {
	case Selected:
		// Re-enable before resetting b, using the count from before this deselection.
		if p.Capacity > 1 && p.Count() == p.Capacity {
			p.setAll(Disabled, Selectable)
		}
		b.State = Selectable
		return true

	case Selectable:
		if p.Capacity == 1 {
			p.setAll(Selected, Selectable)
			b.State = Selected
			return true
		}
		if p.Count() >= p.Capacity {
			return false
		}
		b.State = Selected
		if p.Count() == p.Capacity {
			p.setAll(Selectable, Disabled)
		}
		return true
	}

	return false
}

// setAll moves every button in state from to state to
func (p *Position) setAll(from, to State) {
	for _, b := range p.Buttons {
		if b.State == from {
			b.State = to
		}
	}
}

// Page is the full ballot as shown to one voter
type Page struct {
	Positions []*Position
}

// Position returns the position with the given ID, or nil
func (pg *Page) Position(id string) *Position {
	for _, p := range pg.Positions {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Click routes a click to the position that owns the candidate
func (pg *Page) Click(positionID, candidateID string) (bool, error) {
	p := pg.Position(positionID)
	if p == nil {
		return false, ErrPositionNotFound
	}
	if p.Button(candidateID) == nil {
		return false, ErrCandidateNotFound
	}
	return p.Click(candidateID), nil
}

// SelectedIDs returns every selected candidate in document order
func (pg *Page) SelectedIDs() []string {
	ids := []string{}
	for _, p := range pg.Positions {
		for _, b := range p.Buttons {
			if b.State == Selected {
				ids = append(ids, b.CandidateID)
			}
		}
	}
	return ids
}

// Payload encodes the selected candidates as a JSON array of strings
func (pg *Page) Payload() (string, error) {
	data, err := json.Marshal(pg.SelectedIDs())
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(data), nil
}
