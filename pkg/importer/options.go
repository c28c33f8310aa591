package importer

import (
	"github.com/agentstation/servicesync/pkg/normalize"
	"github.com/agentstation/servicesync/pkg/suitability"
)

// Option configures an Importer.
type Option func(*Importer)

// WithDryRun makes Run skip persistence.
func WithDryRun(dryRun bool) Option {
	return func(i *Importer) {
		i.dryRun = dryRun
	}
}

// WithFilterOptions configures the suitability filter of every run.
func WithFilterOptions(opts ...suitability.Option) Option {
	return func(i *Importer) {
		i.filterOpts = append(i.filterOpts, opts...)
	}
}

// WithNormalizerOptions configures the record normalizer of every run.
func WithNormalizerOptions(opts ...normalize.Option) Option {
	return func(i *Importer) {
		i.normalizerOpts = append(i.normalizerOpts, opts...)
	}
}
