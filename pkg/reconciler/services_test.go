package reconciler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/reconciler"
)

func TestServices(t *testing.T) {
	prior := []catalog.Service{
		{
			ID:            "102",
			Type:          catalog.ServiceType,
			ChannelIDs:    []string{"112", "113"},
			Organizations: []catalog.Organization{{ID: str("ptv-org")}},
			Areas: catalog.Localized[[]catalog.Area]{
				catalog.Finnish: {{Type: catalog.AreaTypeProvince, Code: str("02")}},
			},
			Name: catalog.Localized[*string]{catalog.Finnish: str("PTV name")},
		},
		{ID: "103", ChannelIDs: []string{"113", "114"}},
	}
	incoming := []catalog.Service{
		{ID: "1", ExternalID: str("102"), ChannelIDs: []string{"123", "124"}, Organizations: []catalog.Organization{{ID: str("55")}}},
		{ID: "2", ExternalID: str("103"), ChannelIDs: []string{"124"}},
		{ID: "3", ChannelIDs: []string{"125"}},
		{ID: "4", ExternalID: str("345")},
		{ID: "6"},
	}

	native, recognized := reconciler.Services(incoming, prior)

	t.Run("native keeps order and appends demoted", func(t *testing.T) {
		require.Len(t, native, 3)
		assert.Equal(t, "3", native[0].ID)
		assert.Equal(t, "6", native[1].ID)
		assert.Equal(t, "4", native[2].ID)
		for _, svc := range native {
			assert.Nil(t, svc.ExternalID)
		}
	})

	t.Run("recognized identifiers", func(t *testing.T) {
		require.Len(t, recognized, 2)
		assert.Equal(t, "1", recognized[0].ID)
		assert.Equal(t, "102", *recognized[0].ExternalID)
		assert.Equal(t, "2", recognized[1].ID)
		assert.Equal(t, "103", *recognized[1].ExternalID)
	})

	t.Run("merge takes local organizations and channels", func(t *testing.T) {
		merged := recognized[0]
		assert.Equal(t, []string{"123", "124"}, merged.ChannelIDs)
		assert.Equal(t, "55", *merged.Organizations[0].ID)
		assert.Equal(t, "PTV name", *merged.Name[catalog.Finnish])
		assert.Equal(t, "02", *merged.Areas[catalog.Finnish][0].Code)
		assert.Equal(t, catalog.ServiceType, merged.Type)
	})

	t.Run("inputs untouched", func(t *testing.T) {
		assert.Equal(t, "102", prior[0].ID)
		assert.Nil(t, prior[0].ExternalID)
		assert.Equal(t, []string{"112", "113"}, prior[0].ChannelIDs)
		assert.Equal(t, "345", *incoming[3].ExternalID)

		recognized[0].ChannelIDs[0] = "mutated"
		assert.Equal(t, "123", incoming[0].ChannelIDs[0])
	})
}

func TestServicesEmpty(t *testing.T) {
	native, recognized := reconciler.Services(nil, nil)
	assert.Empty(t, native)
	assert.Empty(t, recognized)
}

func TestServicesUnresolvedWithoutPrior(t *testing.T) {
	native, recognized := reconciler.Services([]catalog.Service{{ID: "9", ExternalID: str("x")}}, nil)
	require.Len(t, native, 1)
	assert.Nil(t, native[0].ExternalID)
	assert.Empty(t, recognized)
}

func TestServicesDuplicatePriorFirstWins(t *testing.T) {
	prior := []catalog.Service{
		{ID: "102", Type: "first"},
		{ID: "102", Type: "second"},
	}
	_, recognized := reconciler.Services([]catalog.Service{{ID: "1", ExternalID: str("102")}}, prior)
	require.Len(t, recognized, 1)
	assert.Equal(t, "first", recognized[0].Type)
}
