package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/allisson/rolegate/internal/access/domain"
	apperrors "github.com/allisson/rolegate/internal/errors"
)

// maxRolesResponseBytes caps how much of a role response is read.
const maxRolesResponseBytes = 1 << 20

// HTTPRoleSourceConfig configures an HTTPRoleSource.
type HTTPRoleSourceConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// HTTPRoleSource fetches roles from the authentication backend with
// GET {BaseURL}/identities/{identity}/roles, which answers {"roles": ["..."]}.
// Transient failures (connection errors, 5xx, 429) are retried with backoff.
type HTTPRoleSource struct {
	baseURL string
	client  *retryablehttp.Client
}

// NewHTTPRoleSource creates a role source for the backend at cfg.BaseURL.
func NewHTTPRoleSource(cfg HTTPRoleSourceConfig, logger *slog.Logger) *HTTPRoleSource {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	if cfg.RetryWaitMin > 0 {
		client.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		client.RetryWaitMax = cfg.RetryWaitMax
	}
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}

	return &HTTPRoleSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
	}
}

type rolesResponse struct {
	Roles *[]string `json:"roles"`
}

// FetchRoles returns the roles the backend reports for identity. Unknown identities
// yield ErrIdentityNotFound; transport failures, unexpected status codes and
// malformed payloads yield ErrRoleSourceUnavailable.
func (s *HTTPRoleSource) FetchRoles(ctx context.Context, identity string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/identities/%s/roles", s.baseURL, url.PathEscape(identity))

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(domain.ErrRoleSourceUnavailable, err.Error())
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.Wrap(domain.ErrRoleSourceUnavailable, err.Error())
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrIdentityNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, apperrors.Wrapf(domain.ErrRoleSourceUnavailable, "unexpected status %d", resp.StatusCode)
	}

	var body rolesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRolesResponseBytes)).Decode(&body); err != nil {
		return nil, apperrors.Wrapf(domain.ErrRoleSourceUnavailable, "malformed roles payload: %v", err)
	}
	if body.Roles == nil {
		return nil, apperrors.Wrap(domain.ErrRoleSourceUnavailable, "malformed roles payload: missing roles")
	}
	return *body.Roles, nil
}
