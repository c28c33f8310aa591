package app

import (
	"strconv"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/servicesync"
	"github.com/agentstation/servicesync/internal/cmd/output"
	"github.com/agentstation/servicesync/pkg/importer"
	"github.com/agentstation/servicesync/pkg/store"
)

// resultTable lays out an import result as metric/value rows.
type resultTable struct {
	*importer.Result
}

func (r resultTable) Table() output.Table {
	s := r.Stats
	rows := [][]string{
		{"run_id", r.RunID},
		{"offers", strconv.Itoa(s.Offers)},
		{"suitable", strconv.Itoa(s.Suitable)},
		{"recognized", strconv.Itoa(s.Recognized)},
		{"native", strconv.Itoa(s.Native)},
		{"demoted", strconv.Itoa(s.Demoted)},
		{"channels_fetched", strconv.Itoa(s.ChannelsFetched)},
		{"channels_new", strconv.Itoa(s.ChannelsNew)},
		{"channels_unlinked", strconv.Itoa(s.ChannelsUnlinked)},
		{"channels_known", strconv.Itoa(s.ChannelsKnown)},
		{"changed", strconv.Itoa(s.Changed)},
		{"persisted", strconv.FormatBool(r.Persisted)},
		{"dry_run", strconv.FormatBool(r.DryRun)},
		{"duration", r.Duration().Round(time.Millisecond).String()},
	}
	for _, row := range rows {
		row[0] = output.Title(row[0])
	}
	return output.Table{
		Headers:      []string{"Metric", "Value"},
		Rows:         rows,
		RightAligned: []int{1},
	}
}

// statusTable lays out a store status with one row per collection.
type statusTable struct {
	*servicesync.Status
}

func (s statusTable) Table() output.Table {
	latest := map[store.Collection]*utc.Time{
		store.ImportedServices: s.LatestService,
		store.ImportedChannels: s.LatestChannel,
	}
	collections := []store.Collection{
		store.Municipalities,
		store.Services,
		store.Channels,
		store.ImportedServices,
		store.ImportedChannels,
	}

	rows := make([][]string, 0, len(collections))
	for _, c := range collections {
		rows = append(rows, []string{
			c.String(),
			strconv.Itoa(s.Counts[c]),
			formatTime(latest[c]),
		})
	}
	return output.Table{
		Headers:      []string{"Collection", "Documents", "Latest Update"},
		Rows:         rows,
		RightAligned: []int{1},
	}
}

// scheduleTable lists upcoming import times.
type scheduleTable []time.Time

func (s scheduleTable) Table() output.Table {
	rows := make([][]string, len(s))
	for i, t := range s {
		rows[i] = []string{strconv.Itoa(i + 1), t.UTC().Format(time.RFC3339)}
	}
	return output.Table{
		Headers:      []string{"#", "Import At"},
		Rows:         rows,
		RightAligned: []int{0},
	}
}

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	BuiltBy   string `json:"builtBy" yaml:"builtBy"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func (v versionInfo) Table() output.Table {
	return output.Table{
		Headers: []string{"Property", "Value"},
		Rows: [][]string{
			{"Version", v.Version},
			{"Commit", v.Commit},
			{"Built", v.Date},
			{"Built By", v.BuiltBy},
			{"Go Version", v.GoVersion},
			{"Platform", v.Platform},
		},
	}
}

func formatTime(t *utc.Time) string {
	if t == nil {
		return "-"
	}
	return t.Time.UTC().Format(time.RFC3339)
}
