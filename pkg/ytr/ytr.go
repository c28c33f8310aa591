// Package ytr defines the raw payloads served by the YTR service registry.
// Field names follow the registry's Finnish JSON keys.
package ytr

import (
	"bytes"
	"encoding/json"

	"github.com/agentstation/servicesync/pkg/errors"
)

// ID is a registry identifier. The registry serves identifiers as JSON
// numbers or strings; both decode to the decimal string form.
type ID string

// String returns the string representation of an ID.
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.WrapParse("json", "", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.WrapParse("json", "", err)
	}
	*id = ID(n.String())
	return nil
}

// LocalizedText maps a language code to a value, which may be null.
type LocalizedText map[string]*string

// Get returns the value for lang, or nil when absent.
func (t LocalizedText) Get(lang string) *string {
	if t == nil {
		return nil
	}
	return t[lang]
}

// Municipality is a registry municipality (kunta).
type Municipality struct {
	ID   *ID     `json:"id"`
	Code *string `json:"kuntakoodi"`
}

// TargetGroup is a target group (kohderyhma) of a service offer.
type TargetGroup struct {
	Code string        `json:"koodi"`
	Name LocalizedText `json:"nimi"`
}

// Availability names a municipality a service offer is available in.
type Availability struct {
	Municipality *ID `json:"kunta"`
}

// ServiceOffer is a registry service offer (palvelutarjous).
type ServiceOffer struct {
	ID             *ID            `json:"id"`
	PTVID          *string        `json:"ptvId"`
	ChannelIDs     []ID           `json:"palvelukanavat"`
	OrganizationID *ID            `json:"toimija_id"`
	Name           LocalizedText  `json:"nimi"`
	Description    LocalizedText  `json:"kuvaus"`
	TargetGroups   []TargetGroup  `json:"kohderyhmat"`
	Availability   []Availability `json:"kuntasaatavuudet"`
	Modified       *string        `json:"muutettu"`
}

// Contact type tags.
const (
	ContactTypePhone   = 1
	ContactTypeWebPage = 2
)

// ContactType tags a contact entry.
type ContactType struct {
	ID int `json:"id"`
}

// Contact is a channel contact entry (yhteystieto).
type Contact struct {
	Type  *ContactType `json:"yhteystietotyyppi"`
	Value *string      `json:"arvo"`
}

// Address is a channel address (osoite).
type Address struct {
	Street       LocalizedText `json:"katuosoite"`
	PostalCode   *string       `json:"postinumero"`
	Municipality *ID           `json:"kunta"`
}

// Channel is a registry service channel (palvelukanava).
type Channel struct {
	ID             *ID           `json:"id"`
	PTVID          *string       `json:"ptvId"`
	OrganizationID *ID           `json:"toimija"`
	Name           LocalizedText `json:"nimi"`
	Description    LocalizedText `json:"kuvaus"`
	Contacts       []Contact     `json:"yhteystiedot"`
	Address        *Address      `json:"osoite"`
	Modified       *string       `json:"muutettu"`
}
