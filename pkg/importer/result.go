package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync/pkg/catalog"
)

// Stats counts what a run saw at each stage.
type Stats struct {
	Offers     int `json:"offers" yaml:"offers"`
	Suitable   int `json:"suitable" yaml:"suitable"`
	Native     int `json:"native" yaml:"native"`
	Recognized int `json:"recognized" yaml:"recognized"`
	// Demoted services claimed a federated id that matched no federated
	// service. They are included in Native.
	Demoted int `json:"demoted" yaml:"demoted"`

	ChannelsFetched  int `json:"channelsFetched" yaml:"channelsFetched"`
	ChannelsNew      int `json:"channelsNew" yaml:"channelsNew"`
	ChannelsUnlinked int `json:"channelsUnlinked" yaml:"channelsUnlinked"`
	ChannelsKnown    int `json:"channelsKnown" yaml:"channelsKnown"`

	// Changed services were updated after the newest stored import.
	Changed int `json:"changed" yaml:"changed"`
}

// Result is the outcome of one run.
type Result struct {
	RunID      string            `json:"runId" yaml:"runId"`
	Services   []catalog.Service `json:"-" yaml:"-"`
	Channels   []catalog.Channel `json:"-" yaml:"-"`
	Stats      Stats             `json:"stats" yaml:"stats"`
	Persisted  bool              `json:"persisted" yaml:"persisted"`
	DryRun     bool              `json:"dryRun" yaml:"dryRun"`
	StartedAt  utc.Time          `json:"startedAt" yaml:"startedAt"`
	FinishedAt utc.Time          `json:"finishedAt" yaml:"finishedAt"`
}

// Duration returns how long the run took.
func (r *Result) Duration() time.Duration {
	if r.FinishedAt.Time.IsZero() {
		return 0
	}
	return r.FinishedAt.Time.Sub(r.StartedAt.Time)
}

// Summary returns a one-line human readable summary.
func (r *Result) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d services (%d recognized, %d native, %d demoted), ",
		len(r.Services), r.Stats.Recognized, r.Stats.Native, r.Stats.Demoted)
	fmt.Fprintf(&b, "%d channels (%d new, %d unlinked, %d known), ",
		len(r.Channels), r.Stats.ChannelsNew, r.Stats.ChannelsUnlinked, r.Stats.ChannelsKnown)
	fmt.Fprintf(&b, "%d of %d offers suitable, %d changed", r.Stats.Suitable, r.Stats.Offers, r.Stats.Changed)
	switch {
	case r.DryRun:
		b.WriteString(", dry run")
	case !r.Persisted:
		b.WriteString(", not persisted")
	}
	return b.String()
}
