package reconciler_test

import (
	"github.com/agentstation/servicesync/internal/utils/ptr"
	"github.com/agentstation/servicesync/pkg/catalog"
)

var str = ptr.String

func channel(id, externalID *string, serviceIDs ...string) catalog.Channel {
	if serviceIDs == nil {
		serviceIDs = []string{}
	}
	return catalog.Channel{
		ID:         id,
		ExternalID: externalID,
		AreaType:   catalog.AreaTypeMunicipality,
		ServiceIDs: serviceIDs,
	}
}

func ids(chs []catalog.Channel) []string {
	out := make([]string, 0, len(chs))
	for _, ch := range chs {
		out = append(out, catalog.Value(ch.ID))
	}
	return out
}
