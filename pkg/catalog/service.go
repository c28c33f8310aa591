package catalog

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/internal/utils/ptr"
)

// ServiceType is the type of every service produced from registry data.
const ServiceType = "Service"

// Service is a normalized service record.
//
// ID is the identity within the registry being imported. ExternalID holds the
// identifier the same service has in the federated registry, or nil when the
// service is native to the imported registry.
type Service struct {
	ID            string         `json:"id" yaml:"id"`
	ExternalID    *string        `json:"ptvId" yaml:"ptvId"`
	Type          string         `json:"type" yaml:"type"`
	Subtype       *string        `json:"subtype" yaml:"subtype"`
	Organizations []Organization `json:"organizations" yaml:"organizations"`
	ChannelIDs    []string       `json:"channelIds" yaml:"channelIds"`

	Name           Localized[*string]          `json:"name" yaml:"name"`
	Descriptions   Localized[[]Description]    `json:"descriptions" yaml:"descriptions"`
	Requirement    Localized[string]           `json:"requirement" yaml:"requirement"`
	TargetGroups   Localized[[]TargetGroup]    `json:"targetGroups" yaml:"targetGroups"`
	ServiceClasses Localized[[]Classification] `json:"serviceClasses" yaml:"serviceClasses"`
	Areas          Localized[[]Area]           `json:"areas" yaml:"areas"`
	LifeEvents     Localized[[]Classification] `json:"lifeEvents" yaml:"lifeEvents"`

	LastUpdated *utc.Time `json:"lastUpdated" yaml:"lastUpdated"`
}

// IsNative reports whether the service has no federated counterpart.
func (s Service) IsNative() bool {
	return s.ExternalID == nil
}

// DocumentID returns the identifier the service is stored under.
func (s Service) DocumentID() string {
	return s.ID
}

// Updated returns the last update time of the service.
func (s Service) Updated() *utc.Time {
	return s.LastUpdated
}

// Clone returns a deep copy of the service.
func (s Service) Clone() Service {
	out := s
	out.ExternalID = ptr.Clone[string](s.ExternalID)
	out.Subtype = ptr.Clone[string](s.Subtype)
	out.Organizations = cloneOrganizations(s.Organizations)
	out.ChannelIDs = cloneSlice(s.ChannelIDs)
	out.Name = s.Name.Clone(ptr.Clone[string])
	out.Descriptions = s.Descriptions.Clone(cloneSlice[Description])
	out.Requirement = s.Requirement.Clone(func(v string) string { return v })
	out.TargetGroups = s.TargetGroups.Clone(cloneSlice[TargetGroup])
	out.ServiceClasses = s.ServiceClasses.Clone(cloneSlice[Classification])
	out.Areas = s.Areas.Clone(cloneSlice[Area])
	out.LifeEvents = s.LifeEvents.Clone(cloneSlice[Classification])
	if s.LastUpdated != nil {
		t := *s.LastUpdated
		out.LastUpdated = &t
	}
	return out
}

func cloneOrganizations(orgs []Organization) []Organization {
	if orgs == nil {
		return nil
	}
	out := make([]Organization, len(orgs))
	for i, o := range orgs {
		out[i] = Organization{ID: ptr.Clone[string](o.ID), Name: ptr.Clone[string](o.Name)}
	}
	return out
}
