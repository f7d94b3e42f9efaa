// ABOUTME: Settings and site-management handlers for the Huma API
// ABOUTME: Backs the popup surface: configuration, connection test, site approvals, manual send

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mealie-bridge-api/core/domain"
)

// redactedToken replaces the stored token in read responses.
const redactedToken = "********"

// SettingsService interface defines the methods needed from the settings
// service
type SettingsService interface {
	Load(ctx context.Context) (*domain.Settings, error)
	Save(ctx context.Context, cfg *domain.Settings) error
	TestConnection(ctx context.Context, serverURL, apiToken string) error
	AddUserSite(ctx context.Context, rawURL string) (string, error)
	RemoveUserSite(ctx context.Context, site string) error
	SendCurrentTab(ctx context.Context) domain.CreateReply
}

// SiteLister reads the effective site lists
type SiteLister interface {
	Whitelist(ctx context.Context) ([]string, error)
	UserSites(ctx context.Context) ([]string, error)
}

// SettingsHandler handles settings-related HTTP requests
type SettingsHandler struct {
	service SettingsService
	sites   SiteLister
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service SettingsService, sites SiteLister) *SettingsHandler {
	return &SettingsHandler{
		service: service,
		sites:   sites,
	}
}

// RegisterRoutes registers all settings-related routes
func (h *SettingsHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/settings",
		Summary:     "Read the bridge configuration",
		Description: "The API token is redacted; it can be written but never read back",
		Tags:        []string{"Settings"},
	}, h.GetSettings)

	huma.Register(api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPut,
		Path:        "/settings",
		Summary:     "Update the bridge configuration",
		Tags:        []string{"Settings"},
	}, h.UpdateSettings)

	huma.Register(api, huma.Operation{
		OperationID: "testConnection",
		Method:      http.MethodPost,
		Path:        "/settings/test-connection",
		Summary:     "Probe a Mealie server with a candidate URL and token",
		Description: "Persists the URL and token only when the authenticated probe succeeds",
		Tags:        []string{"Settings"},
	}, h.TestConnection)

	huma.Register(api, huma.Operation{
		OperationID: "listSites",
		Method:      http.MethodGet,
		Path:        "/sites",
		Summary:     "List built-in and user-approved sites",
		Tags:        []string{"Sites"},
	}, h.ListSites)

	huma.Register(api, huma.Operation{
		OperationID: "addSite",
		Method:      http.MethodPost,
		Path:        "/sites",
		Summary:     "Approve a new site",
		Description: "Requests the host permission for the site's origin; the site is stored only when the grant succeeds",
		Tags:        []string{"Sites"},
	}, h.AddSite)

	huma.Register(api, huma.Operation{
		OperationID: "removeSite",
		Method:      http.MethodDelete,
		Path:        "/sites/{site}",
		Summary:     "Remove an approved site",
		Tags:        []string{"Sites"},
	}, h.RemoveSite)

	huma.Register(api, huma.Operation{
		OperationID: "sendCurrentTab",
		Method:      http.MethodPost,
		Path:        "/send-current",
		Summary:     "Import the recipe on the active tab",
		Tags:        []string{"Settings"},
	}, h.SendCurrentTab)
}

// SettingsBody is the wire shape of the configuration
type SettingsBody struct {
	ServerURL            string `json:"mealieUrl" doc:"Mealie server base URL (HTTPS)"`
	APIToken             string `json:"apiToken,omitempty" doc:"Mealie API token; redacted in reads"`
	EnableDuplicateCheck bool   `json:"enableDuplicateCheck"`
	OpenEditAfterImport  bool   `json:"openEditAfterImport"`
	EnableParseOnEdit    bool   `json:"enableParseOnEdit"`
	Configured           bool   `json:"configured" doc:"Whether both URL and token are set"`
}

// GetSettingsOutput wraps the configuration read response
type GetSettingsOutput struct {
	Body SettingsBody
}

// GetSettings handles GET /settings
func (h *SettingsHandler) GetSettings(ctx context.Context, input *struct{}) (*GetSettingsOutput, error) {
	cfg, err := h.service.Load(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &GetSettingsOutput{}
	out.Body = SettingsBody{
		ServerURL:            cfg.ServerURL,
		EnableDuplicateCheck: cfg.EnableDuplicateCheck,
		OpenEditAfterImport:  cfg.OpenEditAfterImport,
		EnableParseOnEdit:    cfg.EnableParseOnEdit,
		Configured:           cfg.IsConfigured(),
	}
	if cfg.APIToken != "" {
		out.Body.APIToken = redactedToken
	}
	return out, nil
}

// UpdateSettingsInput carries the new configuration
type UpdateSettingsInput struct {
	Body struct {
		ServerURL            string `json:"mealieUrl"`
		APIToken             string `json:"apiToken,omitempty"`
		EnableDuplicateCheck bool   `json:"enableDuplicateCheck"`
		OpenEditAfterImport  bool   `json:"openEditAfterImport"`
		EnableParseOnEdit    bool   `json:"enableParseOnEdit"`
	}
}

// UpdateSettingsOutput acknowledges the update
type UpdateSettingsOutput struct {
	Body struct {
		Saved bool `json:"saved"`
	}
}

// UpdateSettings handles PUT /settings. A redacted token placeholder
// keeps the stored token untouched.
func (h *SettingsHandler) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*UpdateSettingsOutput, error) {
	current, err := h.service.Load(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	cfg := &domain.Settings{
		ServerURL:            input.Body.ServerURL,
		APIToken:             input.Body.APIToken,
		EnableDuplicateCheck: input.Body.EnableDuplicateCheck,
		OpenEditAfterImport:  input.Body.OpenEditAfterImport,
		EnableParseOnEdit:    input.Body.EnableParseOnEdit,
		DomainWhitelist:      current.DomainWhitelist,
		UserSites:            current.UserSites,
	}
	if input.Body.APIToken == redactedToken {
		cfg.APIToken = current.APIToken
	}

	if err := h.service.Save(ctx, cfg); err != nil {
		return nil, toHumaError(err)
	}

	out := &UpdateSettingsOutput{}
	out.Body.Saved = true
	return out, nil
}

// TestConnectionInput carries the candidate server URL and token
type TestConnectionInput struct {
	Body struct {
		ServerURL string `json:"mealieUrl" minLength:"1"`
		APIToken  string `json:"apiToken" minLength:"1"`
	}
}

// TestConnectionOutput reports the probe result
type TestConnectionOutput struct {
	Body struct {
		Connected bool `json:"connected"`
	}
}

// TestConnection handles POST /settings/test-connection
func (h *SettingsHandler) TestConnection(ctx context.Context, input *TestConnectionInput) (*TestConnectionOutput, error) {
	if err := h.service.TestConnection(ctx, input.Body.ServerURL, input.Body.APIToken); err != nil {
		return nil, toHumaError(err)
	}
	out := &TestConnectionOutput{}
	out.Body.Connected = true
	return out, nil
}

// ListSitesOutput reports both site lists
type ListSitesOutput struct {
	Body struct {
		Builtin   []string `json:"builtin" doc:"Shipped whitelist domains"`
		UserSites []string `json:"userSites" doc:"User-approved domains"`
	}
}

// ListSites handles GET /sites
func (h *SettingsHandler) ListSites(ctx context.Context, input *struct{}) (*ListSitesOutput, error) {
	builtin, err := h.sites.Whitelist(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}
	userSites, err := h.sites.UserSites(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &ListSitesOutput{}
	out.Body.Builtin = builtin
	out.Body.UserSites = userSites
	if out.Body.UserSites == nil {
		out.Body.UserSites = []string{}
	}
	return out, nil
}

// AddSiteInput carries the site URL to approve
type AddSiteInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Any URL on the site to approve"`
	}
}

// AddSiteOutput reports the stored domain
type AddSiteOutput struct {
	Body struct {
		Site string `json:"site" doc:"Stored domain, www prefix stripped"`
	}
}

// AddSite handles POST /sites
func (h *SettingsHandler) AddSite(ctx context.Context, input *AddSiteInput) (*AddSiteOutput, error) {
	site, err := h.service.AddUserSite(ctx, input.Body.URL)
	if err != nil {
		return nil, toHumaError(err)
	}
	out := &AddSiteOutput{}
	out.Body.Site = site
	return out, nil
}

// RemoveSiteInput identifies the approved domain to remove
type RemoveSiteInput struct {
	Site string `path:"site" doc:"Approved domain"`
}

// RemoveSiteOutput acknowledges the removal
type RemoveSiteOutput struct {
	Body struct {
		Removed bool `json:"removed"`
	}
}

// RemoveSite handles DELETE /sites/{site}
func (h *SettingsHandler) RemoveSite(ctx context.Context, input *RemoveSiteInput) (*RemoveSiteOutput, error) {
	if err := h.service.RemoveUserSite(ctx, input.Site); err != nil {
		return nil, toHumaError(err)
	}
	out := &RemoveSiteOutput{}
	out.Body.Removed = true
	return out, nil
}

// SendCurrentTabOutput wraps the coordinator's create reply
type SendCurrentTabOutput struct {
	Body domain.CreateReply
}

// SendCurrentTab handles POST /send-current
func (h *SettingsHandler) SendCurrentTab(ctx context.Context, input *struct{}) (*SendCurrentTabOutput, error) {
	return &SendCurrentTabOutput{Body: h.service.SendCurrentTab(ctx)}, nil
}
