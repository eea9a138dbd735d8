// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package selection

// Tab is one entry in a results tab strip
type Tab struct {
	ID    string
	Label string
}

// TabSet tracks which tab is highlighted. Exactly one tab is active
// whenever the set is non-empty.
type TabSet struct {
	Tabs   []Tab
	active int
}

func NewTabSet(tabs []Tab) *TabSet {
	return &TabSet{Tabs: tabs}
}

// Activate highlights the tab with the given ID.
// Unknown IDs leave the current tab active.
func (ts *TabSet) Activate(id string) bool {
	for i, t := range ts.Tabs {
		if t.ID == id {
			ts.active = i
			return true
		}
	}
	return false
}

// Active returns the highlighted tab
func (ts *TabSet) Active() (Tab, bool) {
	if len(ts.Tabs) == 0 {
		return Tab{}, false
	}
	return ts.Tabs[ts.active], true
}

func (ts *TabSet) IsActive(id string) bool {
	t, ok := ts.Active()
	return ok && t.ID == id
}
