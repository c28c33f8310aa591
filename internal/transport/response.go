package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/agentstation/servicesync/pkg/errors"
	"github.com/agentstation/servicesync/pkg/logging"
)

const maxErrorBody = 512

// DecodeResponse decodes a JSON response into the target structure.
// Non-200 responses become *errors.APIError.
func DecodeResponse(ctx context.Context, resp *http.Response, registry, endpoint string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &errors.APIError{
			Registry:   registry,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}
