// Package ytr implements the YTR service registry client.
package ytr

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"

	"github.com/agentstation/servicesync/internal/transport"
	"github.com/agentstation/servicesync/pkg/constants"
	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
	raw "github.com/agentstation/servicesync/pkg/ytr"
)

// Registry endpoints relative to the API base URL.
const (
	MunicipalitiesPath = "/kunta"
	ServiceOffersPath  = "/palvelutarjous"
	ChannelPath        = "/palvelukanava/%s"
)

// Environment variables naming the registry host.
const (
	EnvHost = "KOMPASSIYTR_HOST"
	EnvPort = "KOMPASSIYTR_PORT"
)

// BaseURL builds the API base URL for a registry host and port.
func BaseURL(host, port string) string {
	hostport := host
	if port != "" {
		hostport = net.JoinHostPort(host, port)
	}
	return "http://" + hostport + constants.RegistryAPIPath
}

// BaseURLFromEnv builds the API base URL from KOMPASSIYTR_HOST and
// KOMPASSIYTR_PORT.
func BaseURLFromEnv() (string, error) {
	host := os.Getenv(EnvHost)
	if host == "" {
		return "", errors.NewConfigError("registry", EnvHost+" is not set", nil)
	}
	return BaseURL(host, os.Getenv(EnvPort)), nil
}

// Client fetches raw records from the registry.
type Client struct {
	transport *transport.Client
}

// NewClient creates a registry client for baseURL.
func NewClient(baseURL string, opts ...transport.Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.NewValidationError("registry.url", baseURL, "must be an absolute URL")
	}
	return &Client{transport: transport.New(constants.RegistryName, baseURL, opts...)}, nil
}

// Municipalities fetches all registry municipalities.
func (c *Client) Municipalities(ctx context.Context) ([]raw.Municipality, error) {
	var out []raw.Municipality
	if err := c.transport.GetJSON(ctx, MunicipalitiesPath, &out); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Int("count", len(out)).Msg("Fetched municipalities")
	return out, nil
}

// ServiceOffers fetches all registry service offers.
func (c *Client) ServiceOffers(ctx context.Context) ([]raw.ServiceOffer, error) {
	var out []raw.ServiceOffer
	if err := c.transport.GetJSON(ctx, ServiceOffersPath, &out); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Debug().Int("count", len(out)).Msg("Fetched service offers")
	return out, nil
}

// Channel fetches a single service channel.
func (c *Client) Channel(ctx context.Context, id raw.ID) (raw.Channel, error) {
	var out raw.Channel
	path := fmt.Sprintf(ChannelPath, url.PathEscape(id.String()))
	if err := c.transport.GetJSON(ctx, path, &out); err != nil {
		return raw.Channel{}, err
	}
	return out, nil
}
