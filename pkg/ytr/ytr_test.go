package ytr_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/pkg/ytr"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ytr.ID
	}{
		{"number", `123`, "123"},
		{"string", `"abc-1"`, "abc-1"},
		{"large number", `9007199254740993`, "9007199254740993"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ytr.ID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		var id ytr.ID
		assert.Error(t, json.Unmarshal([]byte(`true`), &id))
	})
}

func TestServiceOfferDecode(t *testing.T) {
	payload := `{
		"id": 1,
		"ptvId": null,
		"palvelukanavat": [123, 124],
		"toimija_id": 9,
		"nimi": {"fi": "Palvelu", "sv": null},
		"kohderyhmat": [{"koodi": "KR-4", "nimi": {"fi": "Kaikki"}}],
		"kuntasaatavuudet": [{"kunta": 1}],
		"muutettu": "2020-12-13T08:02.57.083Z"
	}`

	var offer ytr.ServiceOffer
	require.NoError(t, json.Unmarshal([]byte(payload), &offer))

	require.NotNil(t, offer.ID)
	assert.Equal(t, ytr.ID("1"), *offer.ID)
	assert.Nil(t, offer.PTVID)
	assert.Equal(t, []ytr.ID{"123", "124"}, offer.ChannelIDs)
	assert.Equal(t, "Palvelu", *offer.Name.Get("fi"))
	assert.Nil(t, offer.Name.Get("sv"))
	assert.Nil(t, offer.Description.Get("fi"))
	assert.Equal(t, ytr.ID("1"), *offer.Availability[0].Municipality)
}
