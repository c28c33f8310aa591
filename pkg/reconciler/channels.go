package reconciler

import "github.com/agentstation/servicesync/pkg/catalog"

// OutcomeKind classifies a reconciled channel.
type OutcomeKind int

const (
	// OutcomeNew is a channel not yet in the working set.
	OutcomeNew OutcomeKind = iota
	// OutcomeUnlinked is a prior federated channel of the service that none
	// of the incoming channels claimed.
	OutcomeUnlinked
	// OutcomeKnown is a channel already in the working set.
	OutcomeKnown
)

// String returns the string representation of an OutcomeKind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeNew:
		return "new"
	case OutcomeUnlinked:
		return "unlinked"
	case OutcomeKnown:
		return "known"
	default:
		return "unknown"
	}
}

// Outcome pairs a channel with its classification.
type Outcome struct {
	Kind    OutcomeKind
	Channel catalog.Channel
}

// Channels classifies the incoming channels of one service.
//
// A channel is known when its ExternalID or its ID was already seen, either in
// the working set or earlier in incoming. Otherwise it is new; when its
// ExternalID names a prior federated channel the prior record is returned with
// its own id moved to ExternalID, ID and OrganizationID taken from the
// incoming channel.
//
// After the incoming channels, every prior channel whose id was not matched is
// returned as unlinked, in prior order and once per id, with ExternalID set to
// its own id and OrganizationID cleared.
//
// The working set is only read.
func Channels(incoming []catalog.Channel, ws *WorkingSet, prior []catalog.Channel) []Outcome {
	if ws == nil {
		ws = NewWorkingSet()
	}
	matchedExternal := make(map[string]struct{})
	matchedIDs := make(map[string]struct{})
	seen := func(set map[string]struct{}, key *string, fallback func(string) bool) bool {
		if key == nil {
			return false
		}
		if _, ok := set[*key]; ok {
			return true
		}
		return fallback != nil && fallback(*key)
	}

	priorByID := make(map[string]int, len(prior))
	for i, p := range prior {
		if p.ID == nil {
			continue
		}
		if _, ok := priorByID[*p.ID]; !ok {
			priorByID[*p.ID] = i
		}
	}

	outcomes := make([]Outcome, 0, len(incoming)+len(prior))
	for _, ch := range incoming {
		if seen(matchedExternal, ch.ExternalID, ws.hasExternalID) || seen(matchedIDs, ch.ID, ws.hasID) {
			outcomes = append(outcomes, Outcome{Kind: OutcomeKnown, Channel: ch.Clone()})
			continue
		}

		if ch.ID != nil {
			matchedIDs[*ch.ID] = struct{}{}
		}

		if ch.ExternalID != nil {
			if idx, ok := priorByID[*ch.ExternalID]; ok {
				rec := prior[idx].Clone()
				rec.ExternalID = catalog.String(*prior[idx].ID)
				rec.ID = ch.Clone().ID
				rec.OrganizationID = ch.Clone().OrganizationID
				matchedExternal[*ch.ExternalID] = struct{}{}
				outcomes = append(outcomes, Outcome{Kind: OutcomeNew, Channel: rec})
				continue
			}
		}

		outcomes = append(outcomes, Outcome{Kind: OutcomeNew, Channel: ch.Clone()})
	}

	emitted := make(map[string]struct{})
	for _, p := range prior {
		if p.ID == nil {
			continue
		}
		if _, ok := emitted[*p.ID]; ok {
			continue
		}
		if seen(matchedExternal, p.ID, ws.hasExternalID) {
			continue
		}
		emitted[*p.ID] = struct{}{}

		rec := p.Clone()
		rec.ExternalID = catalog.String(*p.ID)
		rec.OrganizationID = nil
		outcomes = append(outcomes, Outcome{Kind: OutcomeUnlinked, Channel: rec})
	}

	return outcomes
}

// Split separates outcomes into new, unlinked and known channels.
func Split(outcomes []Outcome) (created, unlinked, known []catalog.Channel) {
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeNew:
			created = append(created, o.Channel)
		case OutcomeUnlinked:
			unlinked = append(unlinked, o.Channel)
		case OutcomeKnown:
			known = append(known, o.Channel)
		}
	}
	return created, unlinked, known
}
