// Package normalize converts raw registry payloads into catalog records.
//
// Every localized field is built independently for each language in
// catalog.Languages. Municipality references are resolved to codes through a
// MunicipalityMap and named from the federated municipality catalog.
package normalize

import (
	"maps"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/constants"
)

// Normalizer converts raw service offers and channels. It only reads its inputs.
type Normalizer struct {
	codes        MunicipalityMap
	names        map[string]catalog.Localized[string]
	targetGroups map[string]string
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTargetGroupCodes replaces the registry to catalog target group table.
func WithTargetGroupCodes(table map[string]string) Option {
	return func(n *Normalizer) {
		n.targetGroups = maps.Clone(table)
	}
}

// New creates a Normalizer. municipalities is the federated municipality
// catalog used to name resolved municipality codes.
func New(codes MunicipalityMap, municipalities []catalog.Municipality, opts ...Option) *Normalizer {
	n := &Normalizer{
		codes:        codes,
		names:        make(map[string]catalog.Localized[string], len(municipalities)),
		targetGroups: maps.Clone(constants.TargetGroupCodes),
	}
	for _, mun := range municipalities {
		// first entry wins, as a catalog scan would
		if _, ok := n.names[mun.ID]; !ok {
			n.names[mun.ID] = mun.Name
		}
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// municipalityName looks the code up in the municipality catalog.
// A missing entry or language is not an error.
func (n *Normalizer) municipalityName(code *string, lang catalog.Language) *string {
	if code == nil {
		return nil
	}
	names, ok := n.names[*code]
	if !ok {
		return nil
	}
	name, ok := names[lang]
	if !ok {
		return nil
	}
	return &name
}

func descriptions(text map[string]*string, lang catalog.Language) []catalog.Description {
	value := text[lang.String()]
	if value == nil {
		return []catalog.Description{}
	}
	return []catalog.Description{{Value: *value, Type: catalog.DescriptionType}}
}

func localizedName(text map[string]*string) catalog.Localized[*string] {
	return catalog.NewLocalized(func(lang catalog.Language) *string {
		if v := text[lang.String()]; v != nil {
			s := *v
			return &s
		}
		return nil
	})
}

// ParseTimestamp parses a registry modification time. A nil or malformed
// value yields nil.
func ParseTimestamp(value *string) *utc.Time {
	if value == nil {
		return nil
	}
	t, err := utc.Parse(constants.RegistryTimestampLayout, *value)
	if err != nil {
		return nil
	}
	return &t
}
