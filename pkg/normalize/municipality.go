package normalize

import "github.com/agentstation/servicesync/pkg/ytr"

// MunicipalityMap maps registry municipality ids to municipality codes.
// It is built once per run and never modified afterwards.
type MunicipalityMap map[ytr.ID]string

// NewMunicipalityMap builds the id to code map. Entries missing either field
// are skipped and the last entry wins on duplicate ids.
func NewMunicipalityMap(raw []ytr.Municipality) MunicipalityMap {
	m := make(MunicipalityMap, len(raw))
	for _, mun := range raw {
		if mun.ID == nil || mun.Code == nil {
			continue
		}
		m[*mun.ID] = *mun.Code
	}
	return m
}

// Code resolves a registry municipality id. It returns nil for a nil id or
// an id with no entry.
func (m MunicipalityMap) Code(id *ytr.ID) *string {
	if id == nil {
		return nil
	}
	code, ok := m[*id]
	if !ok {
		return nil
	}
	return &code
}
