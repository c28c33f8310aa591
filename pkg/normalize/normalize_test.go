package normalize_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/internal/utils/ptr"
	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/normalize"
	"github.com/agentstation/servicesync/pkg/ytr"
)

func id(s string) *ytr.ID {
	return ptr.To(ytr.ID(s))
}

var str = ptr.String

func municipalities() []ytr.Municipality {
	return []ytr.Municipality{
		{ID: id("1"), Code: str("001")},
		{ID: id("2"), Code: str("002")},
		{ID: id("3"), Code: str("003")},
	}
}

func ptvMunicipalities() []catalog.Municipality {
	return []catalog.Municipality{{
		ID:   "001",
		Name: catalog.Localized[string]{"fi": "Turku", "sv": "Åbo", "en": "Turku"},
	}}
}

func newNormalizer() *normalize.Normalizer {
	return normalize.New(normalize.NewMunicipalityMap(municipalities()), ptvMunicipalities())
}

func TestNewMunicipalityMap(t *testing.T) {
	t.Run("skips incomplete entries", func(t *testing.T) {
		m := normalize.NewMunicipalityMap([]ytr.Municipality{
			{ID: id("1"), Code: str("001")},
			{ID: nil, Code: str("002")},
			{ID: id("3"), Code: nil},
		})
		assert.Equal(t, normalize.MunicipalityMap{"1": "001"}, m)
	})

	t.Run("last entry wins", func(t *testing.T) {
		m := normalize.NewMunicipalityMap([]ytr.Municipality{
			{ID: id("1"), Code: str("001")},
			{ID: id("1"), Code: str("091")},
		})
		assert.Equal(t, "091", m["1"])
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, normalize.NewMunicipalityMap(nil))
	})

	t.Run("code lookup", func(t *testing.T) {
		m := normalize.NewMunicipalityMap(municipalities())
		assert.Equal(t, "002", *m.Code(id("2")))
		assert.Nil(t, m.Code(id("99")))
		assert.Nil(t, m.Code(nil))
	})
}

func TestNormalizeService(t *testing.T) {
	payload := `{
		"id": 1,
		"ptvId": "102",
		"palvelukanavat": [123, 124],
		"toimija_id": 55,
		"nimi": {"fi": "Kotihoito", "sv": "Hemvård"},
		"kuvaus": {"fi": "Kuvaus"},
		"kohderyhmat": [{"koodi": "KR-4", "nimi": {"fi": "Kaikki", "en": "All"}}],
		"kuntasaatavuudet": [{"kunta": 1}, {"kunta": 2}],
		"muutettu": "2020-12-13T08:02.57.083Z"
	}`
	var raw ytr.ServiceOffer
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	svc, err := newNormalizer().Service(raw)
	require.NoError(t, err)

	assert.Equal(t, "1", svc.ID)
	assert.Equal(t, "102", *svc.ExternalID)
	assert.Equal(t, catalog.ServiceType, svc.Type)
	assert.Nil(t, svc.Subtype)
	assert.Equal(t, []string{"123", "124"}, svc.ChannelIDs)
	require.Len(t, svc.Organizations, 1)
	assert.Equal(t, "55", *svc.Organizations[0].ID)
	assert.Nil(t, svc.Organizations[0].Name)

	assert.Equal(t, "Kotihoito", *svc.Name[catalog.Finnish])
	assert.Nil(t, svc.Name[catalog.English])

	assert.Equal(t, []catalog.Description{{Value: "Kuvaus", Type: "Description"}}, svc.Descriptions[catalog.Finnish])
	assert.Empty(t, svc.Descriptions[catalog.Swedish])
	assert.NotNil(t, svc.Descriptions[catalog.Swedish])

	for _, lang := range catalog.Languages {
		assert.Equal(t, "", svc.Requirement[lang])
		assert.Empty(t, svc.ServiceClasses[lang])
		assert.Empty(t, svc.LifeEvents[lang])
		require.Len(t, svc.TargetGroups[lang], 1)
		assert.Equal(t, "KR1", svc.TargetGroups[lang][0].Code)
	}
	assert.Equal(t, "All", *svc.TargetGroups[catalog.English][0].Name)
	assert.Nil(t, svc.TargetGroups[catalog.Swedish][0].Name)

	areas := svc.Areas[catalog.Finnish]
	require.Len(t, areas, 2)
	assert.Equal(t, "Turku", *areas[0].Name)
	assert.Equal(t, "001", *areas[0].Code)
	assert.Equal(t, catalog.AreaTypeMunicipality, areas[0].Type)
	assert.Equal(t, "Åbo", *svc.Areas[catalog.Swedish][0].Name)
	assert.Nil(t, areas[1].Name, "code without catalog entry keeps a nil name")
	assert.Equal(t, "002", *areas[1].Code)

	require.NotNil(t, svc.LastUpdated)
	want := time.Date(2020, 12, 13, 8, 2, 57, 83_000_000, time.UTC)
	assert.True(t, svc.LastUpdated.Time.Equal(want), "got %v", svc.LastUpdated.Time)
}

func TestNormalizeServiceNative(t *testing.T) {
	svc, err := newNormalizer().Service(ytr.ServiceOffer{ID: id("3")})
	require.NoError(t, err)

	assert.Equal(t, "3", svc.ID)
	assert.Nil(t, svc.ExternalID)
	assert.NotNil(t, svc.ChannelIDs)
	assert.Empty(t, svc.ChannelIDs)
	assert.Nil(t, svc.LastUpdated)
	assert.Nil(t, svc.Organizations[0].ID)
}

func TestNormalizeServiceMissingID(t *testing.T) {
	svc, err := newNormalizer().Service(ytr.ServiceOffer{PTVID: str("102")})
	require.NoError(t, err)

	assert.Empty(t, svc.ID)
	assert.Equal(t, "102", catalog.Value(svc.ExternalID))
}

func TestNormalizeTargetGroupCodes(t *testing.T) {
	tests := map[string]string{
		"KR-1": "KR1.1",
		"KR-2": "KR1.2",
		"KR-3": "KR1.3",
		"KR-4": "KR1",
	}
	for raw, want := range tests {
		t.Run(raw, func(t *testing.T) {
			svc, err := newNormalizer().Service(ytr.ServiceOffer{
				ID:           id("1"),
				TargetGroups: []ytr.TargetGroup{{Code: raw}},
			})
			require.NoError(t, err)
			assert.Equal(t, want, svc.TargetGroups[catalog.Finnish][0].Code)
		})
	}

	t.Run("unrecognized", func(t *testing.T) {
		_, err := newNormalizer().Service(ytr.ServiceOffer{
			ID:           id("5"),
			TargetGroups: []ytr.TargetGroup{{Code: "KR-4"}, {Code: "KR-9"}},
		})
		require.Error(t, err)
		assert.True(t, errors.IsUnrecognizedTargetGroup(err))

		var tgErr *errors.TargetGroupError
		require.ErrorAs(t, err, &tgErr)
		assert.Equal(t, "KR-9", tgErr.Code)
		assert.Equal(t, "5", tgErr.ServiceID)
	})

	t.Run("custom table", func(t *testing.T) {
		n := normalize.New(nil, nil, normalize.WithTargetGroupCodes(map[string]string{"X": "KR9"}))
		svc, err := n.Service(ytr.ServiceOffer{TargetGroups: []ytr.TargetGroup{{Code: "X"}}})
		require.NoError(t, err)
		assert.Equal(t, "KR9", svc.TargetGroups[catalog.Finnish][0].Code)
	})
}

func TestNormalizeServices(t *testing.T) {
	n := newNormalizer()

	out, err := n.Services([]ytr.ServiceOffer{{ID: id("1")}, {ID: id("2")}})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	_, err = n.Services([]ytr.ServiceOffer{{ID: id("1")}, {ID: id("2"), TargetGroups: []ytr.TargetGroup{{Code: "??"}}}})
	assert.True(t, errors.IsUnrecognizedTargetGroup(err))
}

func TestNormalizeChannel(t *testing.T) {
	payload := `{
		"id": 123,
		"ptvId": "112",
		"toimija": 7,
		"nimi": {"fi": "Toimipiste"},
		"yhteystiedot": [
			{"yhteystietotyyppi": {"id": 1}, "arvo": "040 111"},
			{"yhteystietotyyppi": {"id": 2}, "arvo": "https://example.fi"},
			{"yhteystietotyyppi": {"id": 3}, "arvo": "ignored@example.fi"},
			{"yhteystietotyyppi": {"id": 1}, "arvo": "040 222"},
			{"arvo": "untyped"}
		],
		"osoite": {"katuosoite": {"fi": "Katu 1", "sv": "Gatan 1"}, "postinumero": "20100", "kunta": 1}
	}`
	var raw ytr.Channel
	require.NoError(t, json.Unmarshal([]byte(payload), &raw))

	ch := newNormalizer().Channel(raw)

	assert.Equal(t, "123", *ch.ID)
	assert.Equal(t, "112", *ch.ExternalID)
	assert.Equal(t, "7", *ch.OrganizationID)
	assert.Nil(t, ch.Type)
	assert.Equal(t, catalog.AreaTypeMunicipality, ch.AreaType)
	assert.NotNil(t, ch.ServiceIDs)
	assert.Empty(t, ch.ServiceIDs)
	assert.Equal(t, "Toimipiste", *ch.Name[catalog.Finnish])
	assert.Empty(t, ch.Descriptions[catalog.Finnish])

	for _, lang := range catalog.Languages {
		require.Len(t, ch.PhoneNumbers[lang], 1)
		assert.Equal(t, "040 222", ch.PhoneNumbers[lang][0].Number, "later phone entry wins")
		assert.Nil(t, ch.PhoneNumbers[lang][0].PrefixNumber)
		assert.Equal(t, []string{"https://example.fi"}, ch.WebPages[lang])
		assert.Empty(t, ch.Emails[lang])
		assert.Empty(t, ch.Areas[lang])
	}

	addr := ch.Addresses[catalog.Swedish]
	require.Len(t, addr, 1)
	assert.Equal(t, "Gatan 1", *addr[0].StreetName)
	assert.Equal(t, "20100", *addr[0].PostalCode)
	assert.Equal(t, "001", *addr[0].MunicipalityCode)
	assert.Equal(t, "Åbo", *addr[0].MunicipalityName)
	assert.Nil(t, ch.Addresses[catalog.English][0].StreetName)
}

func TestNormalizeChannelMinimal(t *testing.T) {
	ch := newNormalizer().Channel(ytr.Channel{
		Contacts: []ytr.Contact{{Type: &ytr.ContactType{ID: ytr.ContactTypePhone}}},
	})

	assert.Nil(t, ch.ID)
	assert.Nil(t, ch.OrganizationID)
	assert.Nil(t, ch.Name[catalog.Finnish])
	assert.Empty(t, ch.PhoneNumbers[catalog.Finnish], "a nil value yields an empty list")
	assert.Empty(t, ch.Addresses[catalog.Finnish])
	assert.NotNil(t, ch.Addresses[catalog.Finnish])
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		ok    bool
	}{
		{"nil", nil, false},
		{"registry layout", str("2021-06-02T09:40.06.000Z"), true},
		{"microseconds", str("2021-06-02T09:40.06.123456Z"), true},
		{"rfc3339", str("2021-06-02T09:40:06Z"), false},
		{"garbage", str("yesterday"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalize.ParseTimestamp(tt.input)
			assert.Equal(t, tt.ok, got != nil)
		})
	}
}
