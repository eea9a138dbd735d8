// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package selection implements the candidate selection controller for a ballot page.

# Model

A Page holds Positions; each Position holds candidate Buttons and a capacity
(the number of candidates a voter may pick for that office). Every Button is in
exactly one State:

	Selectable → rendered with class "vote-btn"
	Selected   → rendered with class "vote-btn-selected"
	Disabled   → rendered with class "vote-btn-disabled"

The selection count of a position is never stored; Count scans the buttons.

# Clicks

Position.Click applies one click:

  - Capacity 1: selecting a candidate deselects any other (auto-switch).
  - Capacity > 1: selecting up to capacity; reaching capacity disables the
    remaining buttons, and deselecting at capacity re-enables them.
  - Deselecting always returns the button to Selectable.
  - Clicks on Disabled or unknown buttons do nothing.

# Submission

Page.Payload returns the selected candidate IDs in document order as a JSON
array of strings:

	payload, _ := page.Payload() // ["12","7"]

ParsePayload and ValidatePayload check a submitted payload against the page
layout before it is recorded.

# Tabs

TabSet keeps exactly one results tab highlighted.
*/
package selection
