// ABOUTME: Mealie API client translates intents into authenticated HTTP calls
// ABOUTME: Covers create-by-URL, duplicate search, scrape probing, and slug polling

package mealie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mealie-bridge-api/core/domain"
	coreerrors "mealie-bridge-api/core/errors"
	"mealie-bridge-api/core/interfaces"
)

const (
	createEndpoint = "/api/recipes/create/url"
	searchEndpoint = "/api/recipes"
	probeEndpoint  = "/api/recipes/test-scrape-url"
	groupEndpoint  = "/api/groups/self"
	userEndpoint   = "/api/users/self"
)

const (
	defaultProbeTimeout = 5 * time.Second
	defaultPollInterval = 500 * time.Millisecond

	// DefaultMinContentLength is the probe's content-length threshold. A
	// successful test-scrape response smaller than this is treated as "the
	// server found nothing worth parsing". Heuristic, not protocol.
	DefaultMinContentLength = 100

	// DefaultSlugPollAttempts bounds the slug polling loop.
	DefaultSlugPollAttempts = 10
)

// Client issues authenticated HTTP calls against a configured Mealie
// server. A client is cheap to construct; the coordinator builds one per
// request from freshly loaded settings.
type Client struct {
	deps             interfaces.Dependencies
	serverURL        string
	apiToken         string
	probeTimeout     time.Duration
	pollInterval     time.Duration
	minContentLength int64
}

// Option customizes a Client.
type Option func(*Client)

// WithMinContentLength overrides the probe's content-length threshold.
func WithMinContentLength(n int64) Option {
	return func(c *Client) {
		c.minContentLength = n
	}
}

// WithProbeTimeout overrides the scrape probe's timeout.
func WithProbeTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.probeTimeout = d
	}
}

// WithPollInterval overrides the slug polling interval. Tests use this to
// avoid real sleeps.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// NewClient creates a client for the given server and token.
func NewClient(deps interfaces.Dependencies, serverURL, apiToken string, opts ...Option) *Client {
	c := &Client{
		deps:             deps,
		serverURL:        domain.NormalizeServerURL(serverURL),
		apiToken:         apiToken,
		probeTimeout:     defaultProbeTimeout,
		pollInterval:     defaultPollInterval,
		minContentLength: DefaultMinContentLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// authHeader builds the bearer-token headers every call carries.
func (c *Client) authHeader() http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.apiToken)
	h.Set("Accept", "application/json")
	return h
}

// CreateRecipeFromURL asks the server to import the page at pageURL.
// Not idempotent: duplicate submissions create duplicate imports unless
// the duplicate-check policy intervenes upstream.
func (c *Client) CreateRecipeFromURL(ctx context.Context, pageURL string) (*domain.RecipeReference, error) {
	body, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return nil, err
	}

	resp, err := c.deps.HTTPClient.Post(ctx, c.serverURL+createEndpoint, c.authHeader(), bytes.NewReader(body))
	if err != nil {
		return nil, &coreerrors.NetworkError{Op: "create recipe", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return nil, &coreerrors.APIError{StatusCode: resp.StatusCode(), Endpoint: createEndpoint}
	}

	data, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, &coreerrors.NetworkError{Op: "read create response", Err: err}
	}

	ref, err := domain.ParseRecipeReference(data)
	if err != nil {
		return nil, coreerrors.WrapError(err, "unexpected create response")
	}
	if ref.OriginURL == "" {
		ref.OriginURL = pageURL
	}
	return ref, nil
}

// FindByOriginURL searches the server for a recipe whose origin URL
// exactly matches pageURL. Returns (nil, nil) when no recipe matches.
//
// The filter value is bound with strconv.Quote rather than interpolated
// raw, so quotes and backslashes in the page URL cannot escape the
// server-side filter grammar. Exact match (`orgURL = ...`) is used.
func (c *Client) FindByOriginURL(ctx context.Context, pageURL string) (*domain.RecipeReference, error) {
	query := url.Values{}
	query.Set("page", "1")
	query.Set("perPage", "1")
	query.Set("queryFilter", fmt.Sprintf("orgURL = %s", strconv.Quote(pageURL)))

	resp, err := c.deps.HTTPClient.Get(ctx, c.serverURL+searchEndpoint+"?"+query.Encode(), c.authHeader())
	if err != nil {
		return nil, &coreerrors.NetworkError{Op: "duplicate search", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return nil, &coreerrors.APIError{StatusCode: resp.StatusCode(), Endpoint: searchEndpoint}
	}

	var result struct {
		Items []domain.RecipeReference `json:"items"`
	}
	if err := json.NewDecoder(resp.Body()).Decode(&result); err != nil {
		return nil, coreerrors.WrapError(err, "unexpected search response")
	}

	if len(result.Items) == 0 {
		return nil, nil
	}
	return &result.Items[0], nil
}

// ProbeScrapeCompatibility cheaply checks whether the server can parse
// the page at pageURL, without transmitting page content. True only when
// the probe succeeds and its declared content length exceeds the
// threshold. The call is bounded by the probe timeout.
func (c *Client) ProbeScrapeCompatibility(ctx context.Context, pageURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"url": pageURL})
	if err != nil {
		return false, err
	}

	resp, err := c.deps.HTTPClient.Post(ctx, c.serverURL+probeEndpoint, c.authHeader(), bytes.NewReader(body))
	if err != nil {
		return false, &coreerrors.NetworkError{Op: "scrape probe", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return false, nil
	}

	contentLength, _ := strconv.ParseInt(resp.Header("Content-Length"), 10, 64)
	return contentLength > c.minContentLength, nil
}

// FetchGroupSlug returns the current user's group slug, needed to build
// an editor deep link.
func (c *Client) FetchGroupSlug(ctx context.Context) (string, error) {
	resp, err := c.deps.HTTPClient.Get(ctx, c.serverURL+groupEndpoint, c.authHeader())
	if err != nil {
		return "", &coreerrors.NetworkError{Op: "fetch group", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return "", &coreerrors.APIError{StatusCode: resp.StatusCode(), Endpoint: groupEndpoint}
	}

	var group struct {
		Slug string `json:"slug"`
	}
	if err := json.NewDecoder(resp.Body()).Decode(&group); err != nil {
		return "", coreerrors.WrapError(err, "unexpected group response")
	}
	return group.Slug, nil
}

// GetRecipe fetches a recipe by server id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*domain.RecipeReference, error) {
	resp, err := c.deps.HTTPClient.Get(ctx, c.serverURL+searchEndpoint+"/"+url.PathEscape(id), c.authHeader())
	if err != nil {
		return nil, &coreerrors.NetworkError{Op: "fetch recipe", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return nil, &coreerrors.APIError{StatusCode: resp.StatusCode(), Endpoint: searchEndpoint + "/{id}"}
	}

	var ref domain.RecipeReference
	if err := json.NewDecoder(resp.Body()).Decode(&ref); err != nil {
		return nil, coreerrors.WrapError(err, "unexpected recipe response")
	}
	return &ref, nil
}

// WaitForSlug polls until the recipe's slug becomes available, at most
// maxAttempts times. It never returns an error: when polling exhausts it
// returns the best-known reference and the caller degrades to
// "cannot deep-link".
func (c *Client) WaitForSlug(ctx context.Context, ref *domain.RecipeReference, maxAttempts int) *domain.RecipeReference {
	if ref == nil || ref.HasSlug() {
		return ref
	}
	if ref.ID == "" {
		return ref
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-time.After(c.pollInterval):
		case <-ctx.Done():
			return ref
		}

		updated, err := c.GetRecipe(ctx, ref.ID)
		if err != nil {
			c.deps.Logger.Debug("Slug poll attempt failed", map[string]interface{}{
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			continue
		}
		if updated.HasSlug() {
			return updated
		}
	}

	c.deps.Logger.Warn("Recipe slug not available after polling", map[string]interface{}{
		"recipe_id": ref.ID,
		"attempts":  maxAttempts,
	})
	return ref
}

// TestConnection performs an authenticated probe against the configured
// server. Returns nil on success, an APIError carrying the status on an
// authentication or server failure, and a NetworkError on transport
// failure.
func (c *Client) TestConnection(ctx context.Context) error {
	resp, err := c.deps.HTTPClient.Get(ctx, c.serverURL+userEndpoint, c.authHeader())
	if err != nil {
		return &coreerrors.NetworkError{Op: "connection test", Err: err}
	}
	defer resp.Body().Close()

	if !isSuccess(resp.StatusCode()) {
		return &coreerrors.APIError{StatusCode: resp.StatusCode(), Endpoint: userEndpoint}
	}
	return nil
}

// EditorURL builds the deep link into the server's recipe editor.
func (c *Client) EditorURL(groupSlug, recipeSlug string, parse bool) string {
	params := url.Values{}
	params.Set("edit", "true")
	if parse {
		params.Set("parse", "true")
	}
	return fmt.Sprintf("%s/g/%s/r/%s?%s", c.serverURL, url.PathEscape(groupSlug), url.PathEscape(recipeSlug), params.Encode())
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
