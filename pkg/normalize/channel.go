package normalize

import (
	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/ytr"
)

// Channel converts a raw channel. Contacts tagged as phone numbers and web
// pages fill their lists; other tags are ignored and a later entry of the
// same tag replaces an earlier one.
func (n *Normalizer) Channel(raw ytr.Channel) catalog.Channel {
	ch := catalog.Channel{
		ID:             idString(raw.ID),
		ExternalID:     raw.PTVID,
		AreaType:       catalog.AreaTypeMunicipality,
		OrganizationID: idString(raw.OrganizationID),
		ServiceIDs:     []string{},
		Name:           localizedName(raw.Name),
		LastUpdated:    ParseTimestamp(raw.Modified),
	}

	ch.Descriptions = catalog.NewLocalized(func(lang catalog.Language) []catalog.Description {
		return descriptions(raw.Description, lang)
	})

	phones, pages := contacts(raw.Contacts)
	ch.PhoneNumbers = catalog.NewLocalized(func(catalog.Language) []catalog.PhoneNumber {
		return append([]catalog.PhoneNumber{}, phones...)
	})
	ch.WebPages = catalog.NewLocalized(func(catalog.Language) []string {
		return append([]string{}, pages...)
	})
	ch.Emails = catalog.NewLocalized(func(catalog.Language) []string { return []string{} })
	ch.Areas = catalog.NewLocalized(func(catalog.Language) []catalog.Area { return []catalog.Area{} })

	ch.Addresses = catalog.NewLocalized(func(lang catalog.Language) []catalog.Address {
		if raw.Address == nil {
			return []catalog.Address{}
		}
		code := n.codes.Code(raw.Address.Municipality)
		return []catalog.Address{{
			StreetName:       raw.Address.Street.Get(lang.String()),
			PostalCode:       raw.Address.PostalCode,
			MunicipalityCode: code,
			MunicipalityName: n.municipalityName(code, lang),
		}}
	})

	return ch
}

func contacts(entries []ytr.Contact) ([]catalog.PhoneNumber, []string) {
	phones := []catalog.PhoneNumber{}
	pages := []string{}
	for _, c := range entries {
		if c.Type == nil {
			continue
		}
		switch c.Type.ID {
		case ytr.ContactTypePhone:
			phones = []catalog.PhoneNumber{}
			if c.Value != nil {
				phones = append(phones, catalog.PhoneNumber{Number: *c.Value})
			}
		case ytr.ContactTypeWebPage:
			pages = []string{}
			if c.Value != nil {
				pages = append(pages, *c.Value)
			}
		}
	}
	return phones, pages
}
