package catalog

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/internal/utils/ptr"
)

// Channel is a normalized service channel record.
//
// Two channels are the same channel when either their ID or their ExternalID
// coincide. ServiceIDs is the reverse edge of Service.ChannelIDs.
type Channel struct {
	ID             *string  `json:"id" yaml:"id"`
	ExternalID     *string  `json:"ptvId" yaml:"ptvId"`
	Type           *string  `json:"type" yaml:"type"`
	AreaType       string   `json:"areaType" yaml:"areaType"`
	OrganizationID *string  `json:"organizationId" yaml:"organizationId"`
	ServiceIDs     []string `json:"serviceIds" yaml:"serviceIds"`

	Name         Localized[*string]       `json:"name" yaml:"name"`
	Descriptions Localized[[]Description] `json:"descriptions" yaml:"descriptions"`
	WebPages     Localized[[]string]      `json:"webPages" yaml:"webPages"`
	Emails       Localized[[]string]      `json:"emails" yaml:"emails"`
	PhoneNumbers Localized[[]PhoneNumber] `json:"phoneNumbers" yaml:"phoneNumbers"`
	Addresses    Localized[[]Address]     `json:"addresses" yaml:"addresses"`
	Areas        Localized[[]Area]        `json:"areas" yaml:"areas"`

	LastUpdated *utc.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// DocumentID returns the identifier the channel is stored under.
func (c Channel) DocumentID() string {
	return Value(c.ID)
}

// Updated returns the last update time of the channel.
func (c Channel) Updated() *utc.Time {
	return c.LastUpdated
}

// HasService reports whether serviceID is already referenced by the channel.
func (c Channel) HasService(serviceID string) bool {
	for _, id := range c.ServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the channel.
func (c Channel) Clone() Channel {
	out := c
	out.ID = ptr.Clone[string](c.ID)
	out.ExternalID = ptr.Clone[string](c.ExternalID)
	out.Type = ptr.Clone[string](c.Type)
	out.OrganizationID = ptr.Clone[string](c.OrganizationID)
	out.ServiceIDs = cloneSlice(c.ServiceIDs)
	out.Name = c.Name.Clone(ptr.Clone[string])
	out.Descriptions = c.Descriptions.Clone(cloneSlice[Description])
	out.WebPages = c.WebPages.Clone(cloneSlice[string])
	out.Emails = c.Emails.Clone(cloneSlice[string])
	out.PhoneNumbers = c.PhoneNumbers.Clone(cloneSlice[PhoneNumber])
	out.Addresses = c.Addresses.Clone(cloneSlice[Address])
	out.Areas = c.Areas.Clone(cloneSlice[Area])
	if c.LastUpdated != nil {
		t := *c.LastUpdated
		out.LastUpdated = &t
	}
	return out
}
