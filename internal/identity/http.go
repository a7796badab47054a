package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/isdelr/birdgotwit-be/internal/models"
	"golang.org/x/oauth2"
)

// HTTPDirectory talks to a hosted users API (GET {base}/users?username=...&user_id=...)
// authenticated with a static bearer secret.
type HTTPDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPDirectory creates a directory client for the API at baseURL.
// The context only seeds the underlying HTTP client; see oauth2.NewClient.
func NewHTTPDirectory(ctx context.Context, baseURL, secretKey string) *HTTPDirectory {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secretKey, TokenType: "Bearer"})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = 10 * time.Second
	return &HTTPDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// ListUsersByUsername returns the identities whose username exactly matches one of usernames.
func (d *HTTPDirectory) ListUsersByUsername(ctx context.Context, usernames []string) ([]models.Identity, error) {
	return d.listUsers(ctx, "username", usernames)
}

// ListUsersByID returns the identities with the given ids in a single request.
func (d *HTTPDirectory) ListUsersByID(ctx context.Context, ids []string) ([]models.Identity, error) {
	return d.listUsers(ctx, "user_id", ids)
}

func (d *HTTPDirectory) listUsers(ctx context.Context, param string, values []string) ([]models.Identity, error) {
	if len(values) == 0 {
		return []models.Identity{}, nil
	}

	q := url.Values{}
	for _, v := range values {
		q.Add(param, v)
	}
	q.Set("limit", strconv.Itoa(len(values)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/users?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("directory returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var identities []models.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identities); err != nil {
		return nil, fmt.Errorf("failed to decode directory response: %w", err)
	}
	return identities, nil
}
