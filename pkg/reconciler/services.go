package reconciler

import "github.com/agentstation/servicesync/pkg/catalog"

// Services partitions incoming services by their external identifier.
//
// Services without an ExternalID are native. Services whose ExternalID names a
// prior federated service are merged: the prior record is copied, its own id
// moves to ExternalID, ID becomes the incoming id, and Organizations and
// ChannelIDs come from the incoming record. Services whose ExternalID matches
// nothing are demoted to native with ExternalID cleared and appended after the
// services that were native to begin with.
//
// Neither input is modified.
func Services(incoming, prior []catalog.Service) (native, recognized []catalog.Service) {
	byID := make(map[string]int, len(prior))
	for i, p := range prior {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = i
		}
	}

	native = make([]catalog.Service, 0, len(incoming))
	recognized = make([]catalog.Service, 0, len(incoming))
	var demoted []catalog.Service

	for _, svc := range incoming {
		if svc.ExternalID == nil {
			native = append(native, svc.Clone())
			continue
		}

		idx, ok := byID[*svc.ExternalID]
		if !ok {
			d := svc.Clone()
			d.ExternalID = nil
			demoted = append(demoted, d)
			continue
		}

		recognized = append(recognized, merge(prior[idx], svc))
	}

	return append(native, demoted...), recognized
}

func merge(prior, incoming catalog.Service) catalog.Service {
	local := incoming.Clone()
	merged := prior.Clone()
	merged.ExternalID = catalog.String(prior.ID)
	merged.ID = local.ID
	merged.Organizations = local.Organizations
	merged.ChannelIDs = local.ChannelIDs
	return merged
}
