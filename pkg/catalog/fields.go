package catalog

import "github.com/agentstation/servicesync/internal/utils/ptr"

// Organization references the organization responsible for a service.
type Organization struct {
	ID   *string `json:"id" yaml:"id"`
	Name *string `json:"name" yaml:"name"`
}

// Description is one localized description entry.
type Description struct {
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

// DescriptionType is the type of descriptions produced from registry data.
const DescriptionType = "Description"

// TargetGroup is a catalog target group with its localized name.
type TargetGroup struct {
	Name *string `json:"name" yaml:"name"`
	Code string  `json:"code" yaml:"code"`
}

// Area types.
const (
	AreaTypeMunicipality = "Municipality"
	AreaTypeProvince     = "Province"
	AreaTypeRegion       = "Region"
)

// Area is a geographic area a service is available in.
type Area struct {
	Name *string `json:"name" yaml:"name"`
	Type string  `json:"type" yaml:"type"`
	Code *string `json:"code" yaml:"code"`
}

// Classification is a coded entry such as a service class or life event.
type Classification struct {
	Name *string `json:"name" yaml:"name"`
	Code *string `json:"code" yaml:"code"`
}

// PhoneNumber is a channel phone contact.
type PhoneNumber struct {
	Number            string  `json:"number" yaml:"number"`
	PrefixNumber      *string `json:"prefixNumber" yaml:"prefixNumber"`
	ChargeDescription *string `json:"chargeDescription" yaml:"chargeDescription"`
	ServiceChargeType *string `json:"serviceChargeType" yaml:"serviceChargeType"`
}

// Address is a channel visiting address.
type Address struct {
	StreetName       *string `json:"streetName" yaml:"streetName"`
	PostalCode       *string `json:"postalCode" yaml:"postalCode"`
	MunicipalityCode *string `json:"municipalityCode" yaml:"municipalityCode"`
	MunicipalityName *string `json:"municipalityName" yaml:"municipalityName"`
	Type             *string `json:"type" yaml:"type"`
	Subtype          *string `json:"subtype" yaml:"subtype"`
	StreetNumber     *string `json:"streetNumber" yaml:"streetNumber"`
	Latitude         *string `json:"latitude" yaml:"latitude"`
	Longitude        *string `json:"longitude" yaml:"longitude"`
	PostOffice       *string `json:"postOffice" yaml:"postOffice"`
}

// String returns a pointer to s.
func String(s string) *string {
	return ptr.String(s)
}

// Value returns the string s points to, or "" when s is nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	return append(make([]T, 0, len(s)), s...)
}
