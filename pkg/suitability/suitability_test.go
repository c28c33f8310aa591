package suitability_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/suitability"
)

func service(areas []catalog.Area, codes ...string) catalog.Service {
	groups := make([]catalog.TargetGroup, 0, len(codes))
	for _, c := range codes {
		groups = append(groups, catalog.TargetGroup{Code: c})
	}
	return catalog.Service{
		Areas:        catalog.Localized[[]catalog.Area]{catalog.Finnish: areas},
		TargetGroups: catalog.Localized[[]catalog.TargetGroup]{catalog.Finnish: groups},
	}
}

func area(typ, code string) catalog.Area {
	return catalog.Area{Type: typ, Code: catalog.String(code)}
}

func TestIsSuitable(t *testing.T) {
	f := suitability.New([]catalog.Municipality{{ID: "001"}, {ID: "002"}})

	tests := []struct {
		name string
		svc  catalog.Service
		want bool
	}{
		{"empty service", catalog.Service{}, true},
		{"empty partitions", service(nil), true},
		{"suitable target group", service(nil, "KR1"), true},
		{"second suitable group", service(nil, "KR1.1", "KR1.2"), true},
		{"only disallowed group", service(nil, "KR1.1"), false},
		{"only other disallowed group", service(nil, "KR1.3"), false},
		{"known municipality", service([]catalog.Area{area(catalog.AreaTypeMunicipality, "002")}, "KR1"), true},
		{"unknown municipality", service([]catalog.Area{area(catalog.AreaTypeMunicipality, "999")}), false},
		{"served province", service([]catalog.Area{area(catalog.AreaTypeProvince, "02")}), true},
		{"served region", service([]catalog.Area{area(catalog.AreaTypeRegion, "02")}), true},
		{"other province", service([]catalog.Area{area(catalog.AreaTypeProvince, "05")}), false},
		{"province code as municipality", service([]catalog.Area{area(catalog.AreaTypeMunicipality, "02")}), false},
		{"unresolved area code", service([]catalog.Area{{Type: catalog.AreaTypeMunicipality}}), false},
		{"region ok group not", service([]catalog.Area{area(catalog.AreaTypeMunicipality, "001")}, "KR1.3"), false},
		{"one of several areas", service([]catalog.Area{area(catalog.AreaTypeMunicipality, "999"), area(catalog.AreaTypeMunicipality, "001")}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.IsSuitable(tt.svc))
		})
	}
}

func TestIsSuitableReadsFinnishPartition(t *testing.T) {
	f := suitability.New(nil)
	svc := catalog.Service{
		TargetGroups: catalog.Localized[[]catalog.TargetGroup]{
			catalog.Finnish: {{Code: "KR1"}},
			catalog.English: {{Code: "KR1.1"}},
		},
	}
	assert.True(t, f.IsSuitable(svc))
}

func TestOptions(t *testing.T) {
	f := suitability.New(nil,
		suitability.WithProvinceCodes("05"),
		suitability.WithSuitableTargetGroups("KR1.3"),
	)

	assert.True(t, f.IsSuitable(service([]catalog.Area{area(catalog.AreaTypeProvince, "05")}, "KR1.3")))
	assert.False(t, f.IsSuitable(service([]catalog.Area{area(catalog.AreaTypeProvince, "02")})))
	assert.False(t, f.IsSuitable(service(nil, "KR1")))
}

func TestSuitable(t *testing.T) {
	f := suitability.New(nil)
	in := []catalog.Service{
		{ID: "1"},
		service(nil, "KR1.1"),
		{ID: "3"},
	}
	in[1].ID = "2"

	out := f.Suitable(in)
	assert.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID)
	assert.Equal(t, "3", out[1].ID)
}
