package reconciler

import "github.com/agentstation/servicesync/pkg/catalog"

// WorkingSet accumulates the channels produced during one run. It only grows;
// the only change to an existing entry is appending to its ServiceIDs.
//
// Lookups use two indexes, by ID and by ExternalID, each pointing at the
// earliest entry carrying the key. Nil keys are never indexed.
type WorkingSet struct {
	channels     []catalog.Channel
	byID         map[string]int
	byExternalID map[string]int
}

// NewWorkingSet creates an empty working set.
func NewWorkingSet() *WorkingSet {
	return &WorkingSet{
		byID:         make(map[string]int),
		byExternalID: make(map[string]int),
	}
}

// Len returns the number of channels in the set.
func (ws *WorkingSet) Len() int {
	return len(ws.channels)
}

// Add appends a copy of ch.
func (ws *WorkingSet) Add(ch catalog.Channel) {
	idx := len(ws.channels)
	ws.channels = append(ws.channels, ch.Clone())
	if ch.ID != nil {
		if _, ok := ws.byID[*ch.ID]; !ok {
			ws.byID[*ch.ID] = idx
		}
	}
	if ch.ExternalID != nil {
		if _, ok := ws.byExternalID[*ch.ExternalID]; !ok {
			ws.byExternalID[*ch.ExternalID] = idx
		}
	}
}

// Find returns the index of the earliest entry sharing ch's ExternalID or ID.
func (ws *WorkingSet) Find(ch catalog.Channel) (int, bool) {
	idx, found := -1, false
	if ch.ExternalID != nil {
		if i, ok := ws.byExternalID[*ch.ExternalID]; ok {
			idx, found = i, true
		}
	}
	if ch.ID != nil {
		if i, ok := ws.byID[*ch.ID]; ok && (!found || i < idx) {
			idx, found = i, true
		}
	}
	return idx, found
}

// Link appends serviceID to the entry matching ch. It reports false when no
// entry matches. A service already referenced is not appended again.
func (ws *WorkingSet) Link(ch catalog.Channel, serviceID string) bool {
	idx, ok := ws.Find(ch)
	if !ok {
		return false
	}
	if !ws.channels[idx].HasService(serviceID) {
		ws.channels[idx].ServiceIDs = append(ws.channels[idx].ServiceIDs, serviceID)
	}
	return true
}

// Apply records the outcomes of reconciling the channels of one service.
// New and unlinked channels join the set referencing serviceID; the entries
// matching known channels get serviceID appended. Known channels themselves
// never join the set.
func (ws *WorkingSet) Apply(serviceID string, outcomes []Outcome) (added, linked int) {
	for _, o := range outcomes {
		if o.Kind == OutcomeKnown {
			continue
		}
		ch := o.Channel.Clone()
		if !ch.HasService(serviceID) {
			ch.ServiceIDs = append(ch.ServiceIDs, serviceID)
		}
		ws.Add(ch)
		added++
	}
	for _, o := range outcomes {
		if o.Kind == OutcomeKnown && ws.Link(o.Channel, serviceID) {
			linked++
		}
	}
	return added, linked
}

// Channels returns copies of the channels in insertion order.
func (ws *WorkingSet) Channels() []catalog.Channel {
	out := make([]catalog.Channel, len(ws.channels))
	for i, ch := range ws.channels {
		out[i] = ch.Clone()
	}
	return out
}

func (ws *WorkingSet) hasID(id string) bool {
	_, ok := ws.byID[id]
	return ok
}

func (ws *WorkingSet) hasExternalID(id string) bool {
	_, ok := ws.byExternalID[id]
	return ok
}
