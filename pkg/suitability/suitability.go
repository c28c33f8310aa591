// Package suitability decides which normalized services belong in the
// imported catalog, based on the Finnish partition of their target groups
// and areas.
package suitability

import (
	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/constants"
)

// Filter is a predicate over normalized services.
type Filter struct {
	municipalities map[string]struct{}
	provinces      map[string]struct{}
	suitable       map[string]struct{}
}

// Option configures a Filter.
type Option func(*Filter)

// WithProvinceCodes sets the served province and region codes.
func WithProvinceCodes(codes ...string) Option {
	return func(f *Filter) {
		f.provinces = set(codes)
	}
}

// WithSuitableTargetGroups sets the catalog target group codes that pass.
// Codes outside this list never pass, whether or not they are listed in
// constants.DefaultNonSuitableTargetGroups.
func WithSuitableTargetGroups(codes ...string) Option {
	return func(f *Filter) {
		f.suitable = set(codes)
	}
}

// New creates a Filter. municipalities is the locally known municipality
// catalog; its ids are the accepted municipality codes.
func New(municipalities []catalog.Municipality, opts ...Option) *Filter {
	f := &Filter{
		municipalities: make(map[string]struct{}, len(municipalities)),
		provinces:      set(constants.DefaultProvinceCodes),
		suitable:       set(constants.DefaultSuitableTargetGroups),
	}
	for _, m := range municipalities {
		f.municipalities[m.ID] = struct{}{}
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// IsSuitable reports whether the service matches both the region and the
// target group predicate. A service without areas matches any region and a
// service without target groups matches any target group.
func (f *Filter) IsSuitable(svc catalog.Service) bool {
	return f.regionMatches(svc.Areas[catalog.Finnish]) && f.targetGroupMatches(svc.TargetGroups[catalog.Finnish])
}

// Suitable returns the suitable services in their original order.
func (f *Filter) Suitable(services []catalog.Service) []catalog.Service {
	out := make([]catalog.Service, 0, len(services))
	for _, svc := range services {
		if f.IsSuitable(svc) {
			out = append(out, svc)
		}
	}
	return out
}

func (f *Filter) regionMatches(areas []catalog.Area) bool {
	if len(areas) == 0 {
		return true
	}
	for _, a := range areas {
		if a.Code == nil {
			continue
		}
		switch a.Type {
		case catalog.AreaTypeMunicipality:
			if _, ok := f.municipalities[*a.Code]; ok {
				return true
			}
		case catalog.AreaTypeProvince, catalog.AreaTypeRegion:
			if _, ok := f.provinces[*a.Code]; ok {
				return true
			}
		}
	}
	return false
}

func (f *Filter) targetGroupMatches(groups []catalog.TargetGroup) bool {
	if len(groups) == 0 {
		return true
	}
	for _, tg := range groups {
		if _, ok := f.suitable[tg.Code]; ok {
			return true
		}
	}
	return false
}

func set(values []string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}
