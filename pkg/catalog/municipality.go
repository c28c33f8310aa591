package catalog

import "github.com/agentstation/utc"

// Municipality is an entry of the federated municipality catalog.
// ID is the municipality code.
type Municipality struct {
	ID   string            `json:"id" yaml:"id"`
	Name Localized[string] `json:"name" yaml:"name"`
}

// DocumentID returns the municipality code.
func (m Municipality) DocumentID() string {
	return m.ID
}

// Updated always returns nil; municipalities carry no update time.
func (m Municipality) Updated() *utc.Time {
	return nil
}
