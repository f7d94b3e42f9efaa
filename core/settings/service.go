// ABOUTME: Settings service backs the extension popup: config edits, site approvals, manual send
// ABOUTME: User-site additions are gated on an explicit host-permission grant

package settings

import (
	"context"
	"fmt"
	"net/url"

	"mealie-bridge-api/core/domain"
	coreerrors "mealie-bridge-api/core/errors"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/mealie"
	"mealie-bridge-api/core/whitelist"
)

// Sender submits a page URL for import the same way the in-page button
// does. The background coordinator satisfies this.
type Sender interface {
	CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply
}

// Service implements the settings UI operations.
type Service struct {
	deps          interfaces.Dependencies
	store         *Store
	sender        Sender
	validateSites bool
	clientOpts    []mealie.Option
}

// ServiceOption customizes the settings service.
type ServiceOption func(*Service)

// WithSiteValidation probes new user sites for scrape compatibility
// before persisting them. Requires a configured server; skipped otherwise.
func WithSiteValidation() ServiceOption {
	return func(s *Service) {
		s.validateSites = true
	}
}

// WithClientOptions forwards options to API clients the service builds.
func WithClientOptions(opts ...mealie.Option) ServiceOption {
	return func(s *Service) {
		s.clientOpts = opts
	}
}

// NewService creates the settings service.
func NewService(deps interfaces.Dependencies, store *Store, sender Sender, opts ...ServiceOption) *Service {
	s := &Service{
		deps:   deps,
		store:  store,
		sender: sender,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current settings.
func (s *Service) Load(ctx context.Context) (*domain.Settings, error) {
	return s.store.Load(ctx)
}

// Save validates and persists user-edited settings. An empty server URL
// is allowed (unconfigured state); a non-empty one must be a valid HTTPS
// origin.
func (s *Service) Save(ctx context.Context, cfg *domain.Settings) error {
	cfg.ServerURL = domain.NormalizeServerURL(cfg.ServerURL)
	if cfg.ServerURL != "" {
		if err := domain.ValidateServerURL(cfg.ServerURL); err != nil {
			return err
		}
	}
	return s.store.Save(ctx, cfg)
}

// TestConnection performs an authenticated probe against the given server
// and persists the URL and token only when the probe succeeds. The caller
// maps the typed error to a safe user-facing message.
func (s *Service) TestConnection(ctx context.Context, serverURL, apiToken string) error {
	serverURL = domain.NormalizeServerURL(serverURL)
	if err := domain.ValidateServerURL(serverURL); err != nil {
		return err
	}
	if apiToken == "" {
		return &coreerrors.ConfigurationMissingError{Field: "API token"}
	}

	client := mealie.NewClient(s.deps, serverURL, apiToken, s.clientOpts...)
	if err := client.TestConnection(ctx); err != nil {
		return err
	}

	cfg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	cfg.ServerURL = serverURL
	cfg.APIToken = apiToken
	return s.store.Save(ctx, cfg)
}

// AddUserSite approves a new site. The flow is: parse the URL, request
// the origin permission from the host platform, optionally validate the
// site, then persist the domain. The domain is never persisted without a
// granted permission. Returns the stored domain.
func (s *Service) AddUserSite(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", &coreerrors.ValidationError{Field: "site URL", Message: "must be an absolute URL"}
	}

	origin := fmt.Sprintf("%s://%s/*", u.Scheme, u.Host)
	site := whitelist.StripWWW(u.Hostname())

	granted, err := s.deps.Browser.ContainsPermission(ctx, origin)
	if err != nil {
		return "", coreerrors.WrapError(err, "querying permission")
	}
	if !granted {
		granted, err = s.deps.Browser.RequestPermission(ctx, origin)
		if err != nil {
			return "", coreerrors.WrapError(err, "requesting permission")
		}
		if !granted {
			return "", &coreerrors.PermissionDeniedError{Origin: origin}
		}
	}

	if s.validateSites {
		if err := s.validateSite(ctx, rawURL); err != nil {
			return "", err
		}
	}

	if err := s.store.AddUserSite(ctx, site); err != nil {
		return "", err
	}

	s.deps.Logger.Info("User site added", map[string]interface{}{
		"site": site,
	})
	return site, nil
}

// validateSite probes the site's landing URL for scrape compatibility.
// Skipped when the server isn't configured yet; the whitelist check on
// page load is the real gate.
func (s *Service) validateSite(ctx context.Context, rawURL string) error {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if !cfg.IsConfigured() {
		return nil
	}

	client := mealie.NewClient(s.deps, cfg.ServerURL, cfg.APIToken, s.clientOpts...)
	ok, err := client.ProbeScrapeCompatibility(ctx, rawURL)
	if err != nil {
		return coreerrors.WrapError(err, "validating site")
	}
	if !ok {
		return &coreerrors.ValidationError{Field: "site URL", Message: "the server could not parse a recipe from this site"}
	}
	return nil
}

// RemoveUserSite revokes the site's origin permission and deletes the
// domain. Revocation is best-effort: a platform refusal is logged but
// does not keep the domain in the list.
func (s *Service) RemoveUserSite(ctx context.Context, site string) error {
	origin := fmt.Sprintf("https://%s/*", site)
	if err := s.deps.Browser.RevokePermission(ctx, origin); err != nil {
		s.deps.Logger.Warn("Failed to revoke permission", map[string]interface{}{
			"origin": origin,
			"error":  err.Error(),
		})
	}
	return s.store.RemoveUserSite(ctx, site)
}

// SendCurrentTab submits the active tab's URL exactly like the in-page
// button does, through the coordinator's create policy.
func (s *Service) SendCurrentTab(ctx context.Context) domain.CreateReply {
	tabURL, err := s.deps.Browser.ActiveTabURL(ctx)
	if err != nil || tabURL == "" {
		s.deps.Logger.Error("Cannot determine active tab", map[string]interface{}{
			"error": fmt.Sprint(err),
		})
		return domain.CreateReply{Success: false, Error: "No active tab"}
	}
	return s.sender.CreateViaAPI(ctx, tabURL)
}
