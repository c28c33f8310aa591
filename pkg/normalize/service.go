package normalize

import (
	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/ytr"
)

// Service converts a raw service offer. The external identifier is copied
// through unchanged. An unrecognized target group code fails with a
// *errors.TargetGroupError.
func (n *Normalizer) Service(raw ytr.ServiceOffer) (catalog.Service, error) {
	svc := catalog.Service{
		Type:       catalog.ServiceType,
		ExternalID: raw.PTVID,
		ChannelIDs: make([]string, 0, len(raw.ChannelIDs)),
		Organizations: []catalog.Organization{{
			ID: idString(raw.OrganizationID),
		}},
		LastUpdated: ParseTimestamp(raw.Modified),
	}
	if raw.ID != nil {
		svc.ID = raw.ID.String()
	}
	for _, id := range raw.ChannelIDs {
		svc.ChannelIDs = append(svc.ChannelIDs, id.String())
	}

	targetGroups := make(map[catalog.Language][]catalog.TargetGroup, len(catalog.Languages))
	for _, lang := range catalog.Languages {
		groups := make([]catalog.TargetGroup, 0, len(raw.TargetGroups))
		for _, tg := range raw.TargetGroups {
			code, ok := n.targetGroups[tg.Code]
			if !ok {
				return catalog.Service{}, errors.NewTargetGroupError(tg.Code, svc.ID)
			}
			groups = append(groups, catalog.TargetGroup{Name: tg.Name.Get(lang.String()), Code: code})
		}
		targetGroups[lang] = groups
	}
	svc.TargetGroups = targetGroups

	svc.Name = localizedName(raw.Name)
	svc.Descriptions = catalog.NewLocalized(func(lang catalog.Language) []catalog.Description {
		return descriptions(raw.Description, lang)
	})
	svc.Requirement = catalog.NewLocalized(func(catalog.Language) string { return "" })
	svc.ServiceClasses = catalog.NewLocalized(func(catalog.Language) []catalog.Classification {
		return []catalog.Classification{}
	})
	svc.LifeEvents = catalog.NewLocalized(func(catalog.Language) []catalog.Classification {
		return []catalog.Classification{}
	})
	svc.Areas = catalog.NewLocalized(func(lang catalog.Language) []catalog.Area {
		areas := make([]catalog.Area, 0, len(raw.Availability))
		for _, a := range raw.Availability {
			code := n.codes.Code(a.Municipality)
			areas = append(areas, catalog.Area{
				Name: n.municipalityName(code, lang),
				Type: catalog.AreaTypeMunicipality,
				Code: code,
			})
		}
		return areas
	})

	return svc, nil
}

// Services converts a batch of raw service offers, stopping at the first error.
func (n *Normalizer) Services(raw []ytr.ServiceOffer) ([]catalog.Service, error) {
	out := make([]catalog.Service, 0, len(raw))
	for _, r := range raw {
		svc, err := n.Service(r)
		if err != nil {
			return nil, err
		}
		out = append(out, svc)
	}
	return out, nil
}

func idString(id *ytr.ID) *string {
	if id == nil {
		return nil
	}
	return catalog.String(id.String())
}
