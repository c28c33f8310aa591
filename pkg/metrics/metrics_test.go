package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/pkg/catalog"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/importer"
)

func persisted() *importer.Result {
	return &importer.Result{
		Services:   make([]catalog.Service, 4),
		Channels:   make([]catalog.Channel, 4),
		Stats:      importer.Stats{Offers: 5, Suitable: 4, Recognized: 2, Native: 2, Demoted: 1, ChannelsNew: 3},
		Persisted:  true,
		FinishedAt: utc.New(time.Unix(1700000000, 0)),
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name   string
		result *importer.Result
		err    error
		want   string
	}{
		{"error", nil, errors.New("boom"), StatusFailed},
		{"nil result", nil, nil, StatusFailed},
		{"dry run", &importer.Result{DryRun: true}, nil, StatusDryRun},
		{"not persisted", &importer.Result{}, nil, StatusSkipped},
		{"persisted", persisted(), nil, StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.result, tt.err))
		})
	}
}

func TestObserveRun(t *testing.T) {
	r := NewRecorder()

	r.ObserveRun(persisted(), nil, 2*time.Second)
	r.ObserveRun(nil, errors.New("registry down"), time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(StatusFailed)))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.records.WithLabelValues("services")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.records.WithLabelValues("channels_new")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lastDuration))
	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastSuccess))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}

func TestSkippedRunKeepsLastSuccess(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(persisted(), nil, time.Second)
	r.ObserveRun(&importer.Result{FinishedAt: utc.New(time.Unix(1800000000, 0))}, nil, time.Second)

	assert.Equal(t, 1700000000.0, testutil.ToFloat64(r.lastSuccess))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.runs.WithLabelValues(StatusSkipped)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.records.WithLabelValues("services")))
}

func TestHandler(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(persisted(), nil, time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `servicesync_import_runs_total{status="success"} 1`)
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveRun(persisted(), nil, time.Second)

	path := filepath.Join(t.TempDir(), "servicesync.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "servicesync_import_last_success_timestamp_seconds")

	assert.True(t, errors.IsValidationError(r.WriteTextfile("")))
}
