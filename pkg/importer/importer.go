package importer

import (
	"context"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
	"github.com/agentstation/servicesync/pkg/normalize"
	"github.com/agentstation/servicesync/pkg/reconciler"
	"github.com/agentstation/servicesync/pkg/store"
	"github.com/agentstation/servicesync/pkg/suitability"
	"github.com/agentstation/servicesync/pkg/ytr"
)

// Registry is the source registry.
type Registry interface {
	Municipalities(ctx context.Context) ([]ytr.Municipality, error)
	ServiceOffers(ctx context.Context) ([]ytr.ServiceOffer, error)
	Channel(ctx context.Context, id ytr.ID) (ytr.Channel, error)
}

// Store is the part of the catalog store a run needs.
type Store interface {
	store.Reader
	store.Writer
}

// Importer runs imports. It holds no state between runs other than the
// municipality catalog loaded by New.
type Importer struct {
	registry       Registry
	store          Store
	municipalities []catalog.Municipality

	dryRun         bool
	filterOpts     []suitability.Option
	normalizerOpts []normalize.Option
}

// New creates an Importer and loads the federated municipality catalog.
func New(ctx context.Context, registry Registry, st Store, opts ...Option) (*Importer, error) {
	if registry == nil {
		return nil, errors.NewValidationError("registry", nil, "cannot be nil")
	}
	if st == nil {
		return nil, errors.NewValidationError("store", nil, "cannot be nil")
	}

	municipalities, err := st.Municipalities(ctx)
	if err != nil {
		return nil, errors.WrapResource("load", "municipalities", "", err)
	}

	i := &Importer{
		registry:       registry,
		store:          st,
		municipalities: municipalities,
	}
	for _, opt := range opts {
		opt(i)
	}

	logging.FromContext(ctx).Debug().
		Int("municipalities", len(municipalities)).
		Bool("dry_run", i.dryRun).
		Msg("Importer initialized")
	return i, nil
}

// Collect fetches and reconciles without writing anything.
func (i *Importer) Collect(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.NewString(),
		StartedAt: utc.Now(),
		DryRun:    i.dryRun,
	}
	ctx = logging.WithRun(ctx, result.RunID)
	logger := logging.FromContext(ctx)

	since, err := i.store.LatestUpdate(ctx, store.ImportedServices)
	if err != nil {
		return nil, err
	}

	r := &run{Importer: i, stats: &result.Stats, ws: reconciler.NewWorkingSet()}
	services, err := r.services(ctx)
	if err != nil {
		return nil, err
	}
	for idx := range services {
		if err := r.channels(ctx, &services[idx]); err != nil {
			return nil, err
		}
	}

	result.Services = services
	result.Channels = r.ws.Channels()
	result.Stats.Changed = countChanged(services, since)
	result.FinishedAt = utc.Now()

	logger.Info().
		Int("services", len(result.Services)).
		Int("channels", len(result.Channels)).
		Int("changed", result.Stats.Changed).
		Dur("duration", result.Duration()).
		Msg("Collected registry data")
	return result, nil
}

// Run collects and, unless the result is empty or the importer is in dry-run
// mode, replaces the imported collections.
func (i *Importer) Run(ctx context.Context) (*Result, error) {
	result, err := i.Collect(ctx)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithRun(ctx, result.RunID)
	logger := logging.FromContext(ctx)

	switch {
	case i.dryRun:
		logger.Info().Msg("Dry run, skipping persistence")
	case len(result.Services) == 0 || len(result.Channels) == 0:
		logger.Warn().
			Int("services", len(result.Services)).
			Int("channels", len(result.Channels)).
			Msg("Empty import result, keeping stored catalog")
	default:
		err := i.store.ReplaceImport(ctx, store.Documents(result.Services), store.Documents(result.Channels))
		if err != nil {
			return nil, err
		}
		result.Persisted = true
		logger.Info().
			Int("services", len(result.Services)).
			Int("channels", len(result.Channels)).
			Msg("Stored imported catalog")
	}

	result.FinishedAt = utc.Now()
	return result, nil
}

// run holds the state of one Collect call.
type run struct {
	*Importer
	normalizer *normalize.Normalizer
	ws         *reconciler.WorkingSet
	stats      *Stats
}

// services fetches, normalizes, filters and reconciles the service offers.
// Recognized services come first.
func (r *run) services(ctx context.Context) ([]catalog.Service, error) {
	logger := logging.FromContext(ctx)
	stats := r.stats

	rawMunicipalities, err := r.registry.Municipalities(ctx)
	if err != nil {
		return nil, err
	}
	r.normalizer = normalize.New(normalize.NewMunicipalityMap(rawMunicipalities), r.municipalities, r.normalizerOpts...)

	offers, err := r.registry.ServiceOffers(ctx)
	if err != nil {
		return nil, err
	}
	stats.Offers = len(offers)

	normalized, err := r.normalizer.Services(offers)
	if err != nil {
		return nil, err
	}

	suitable := suitability.New(r.municipalities, r.filterOpts...).Suitable(normalized)
	stats.Suitable = len(suitable)

	prior, err := r.store.Services(ctx)
	if err != nil {
		return nil, err
	}
	native, recognized := reconciler.Services(suitable, prior)
	stats.Native = len(native)
	stats.Recognized = len(recognized)
	for _, svc := range suitable {
		if !svc.IsNative() {
			stats.Demoted++
		}
	}
	stats.Demoted -= len(recognized)

	logger.Debug().
		Int("offers", stats.Offers).
		Int("suitable", stats.Suitable).
		Int("native", stats.Native).
		Int("recognized", stats.Recognized).
		Int("demoted", stats.Demoted).
		Msg("Reconciled services")

	return append(recognized, native...), nil
}

// channels fetches and reconciles the channels of svc into the working set
// and clears svc's channel references.
func (r *run) channels(ctx context.Context, svc *catalog.Service) error {
	ctx = logging.WithService(ctx, svc.ID)
	stats := r.stats

	incoming := make([]catalog.Channel, 0, len(svc.ChannelIDs))
	for _, id := range svc.ChannelIDs {
		raw, err := r.registry.Channel(logging.WithChannel(ctx, id), ytr.ID(id))
		if err != nil {
			return err
		}
		incoming = append(incoming, r.normalizer.Channel(raw))
	}
	stats.ChannelsFetched += len(incoming)
	svc.ChannelIDs = []string{}

	prior, err := r.priorChannels(ctx, svc, incoming)
	if err != nil {
		return err
	}

	outcomes := reconciler.Channels(incoming, r.ws, prior)
	for _, o := range outcomes {
		switch o.Kind {
		case reconciler.OutcomeNew:
			stats.ChannelsNew++
		case reconciler.OutcomeUnlinked:
			stats.ChannelsUnlinked++
		case reconciler.OutcomeKnown:
			stats.ChannelsKnown++
		}
	}
	added, linked := r.ws.Apply(svc.ID, outcomes)

	logging.FromContext(ctx).Debug().
		Int("fetched", len(incoming)).
		Int("prior", len(prior)).
		Int("added", added).
		Int("linked", linked).
		Msg("Reconciled channels")
	return nil
}

// priorChannels loads the federated channels of a recognized service: those
// referencing its federated id and those the incoming channels point at.
// Their service references are cleared.
func (r *run) priorChannels(ctx context.Context, svc *catalog.Service, incoming []catalog.Channel) ([]catalog.Channel, error) {
	if svc.ExternalID == nil {
		return nil, nil
	}

	prior, err := r.store.ChannelsByServiceIDs(ctx, []string{*svc.ExternalID})
	if err != nil {
		return nil, err
	}

	var referenced []string
	for _, ch := range incoming {
		if ch.ExternalID != nil {
			referenced = append(referenced, *ch.ExternalID)
		}
	}
	if len(referenced) > 0 {
		byID, err := r.store.ChannelsByIDs(ctx, referenced)
		if err != nil {
			return nil, err
		}
		prior = append(prior, byID...)
	}

	for idx := range prior {
		prior[idx].ServiceIDs = []string{}
	}
	return prior, nil
}

// countChanged counts services updated after since. Services without an
// update time, or any service when since is nil, count as changed.
func countChanged(services []catalog.Service, since *utc.Time) int {
	n := 0
	for _, svc := range services {
		if since == nil || svc.LastUpdated == nil || svc.LastUpdated.Time.After(since.Time) {
			n++
		}
	}
	return n
}
