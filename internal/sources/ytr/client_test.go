package ytr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/servicesync/internal/transport"
	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	raw "github.com/agentstation/servicesync/pkg/ytr"
)

// newTestRegistry serves testdata/<name>.json for /api/<name> paths, with
// slashes in the path replaced by underscores.
func newTestRegistry(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.ReplaceAll(strings.TrimPrefix(r.URL.Path, "/api/"), "/", "_")
		data, err := os.ReadFile(filepath.Join("testdata", name+".json"))
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/api", transport.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestMunicipalities(t *testing.T) {
	c := newTestRegistry(t)

	got, err := c.Municipalities(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, raw.ID("1"), *got[0].ID)
	assert.Equal(t, "853", *got[0].Code)
	assert.Nil(t, got[2].Code)
}

func TestServiceOffers(t *testing.T) {
	c := newTestRegistry(t)

	got, err := c.ServiceOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, raw.ID("1"), *first.ID)
	assert.Equal(t, "102", *first.PTVID)
	assert.Equal(t, []raw.ID{"123", "124"}, first.ChannelIDs)
	assert.Equal(t, "KR-1", first.TargetGroups[0].Code)
	assert.Nil(t, first.Name.Get("en"))
	assert.Equal(t, "Matbistånd", *first.Name.Get("sv"))

	second := got[1]
	assert.Equal(t, raw.ID("2"), *second.ID)
	assert.Nil(t, second.PTVID)
	assert.Nil(t, second.Modified)
}

func TestChannel(t *testing.T) {
	c := newTestRegistry(t)

	t.Run("found", func(t *testing.T) {
		ch, err := c.Channel(context.Background(), "123")
		require.NoError(t, err)
		assert.Equal(t, raw.ID("123"), *ch.ID)
		require.Len(t, ch.Contacts, 2)
		assert.Equal(t, raw.ContactTypePhone, ch.Contacts[0].Type.ID)
		require.NotNil(t, ch.Address)
		assert.Equal(t, "20100", *ch.Address.PostalCode)
	})

	t.Run("missing channel", func(t *testing.T) {
		_, err := c.Channel(context.Background(), "999")
		var apiErr *errors.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "/palvelukanava/999", apiErr.Endpoint)
		assert.Equal(t, constants.RegistryName, apiErr.Registry)
	})
}

func TestBearerCredentialIsSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, transport.WithAuth(&transport.BearerAuth{}, "token"))
	require.NoError(t, err)
	got, err := c.Municipalities(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://ytr.local:8080/palvelutieto/api/v1", BaseURL("ytr.local", "8080"))
	assert.Equal(t, "http://ytr.local/palvelutieto/api/v1", BaseURL("ytr.local", ""))
}

func TestBaseURLFromEnv(t *testing.T) {
	t.Setenv(EnvHost, "")
	_, err := BaseURLFromEnv()
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	t.Setenv(EnvHost, "kompassi")
	t.Setenv(EnvPort, "9000")
	got, err := BaseURLFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "http://kompassi:9000/palvelutieto/api/v1", got)
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("kompassi/api")
	assert.True(t, errors.IsValidationError(err))
}
