// ABOUTME: Message and page handlers for the Huma API
// ABOUTME: Exposes the cross-context message protocol and page lifecycle over HTTP

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"mealie-bridge-api/core/content"
	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/settings"
	goquerypage "mealie-bridge-api/infrastructure/page/goquery"
)

// Coordinator interface defines the methods needed from the background
// coordinator. Message endpoints go through Dispatch so the typed
// message enum is the single protocol path; the Messenger methods back
// the content controller on the evaluate pipeline.
type Coordinator interface {
	content.Messenger
	Dispatch(ctx context.Context, msg domain.Message) interface{}
	HandlePageLoad(ctx context.Context, pageID, pageURL string)
	HandlePageUnload(ctx context.Context, pageID string)
	Warning(pageID string) (string, bool)
}

// PageRegistry tracks live page instances for the host binding
type PageRegistry interface {
	RecordPage(pageID, pageURL string)
	ForgetPage(pageID string)
}

// MessageHandler handles message-protocol and page HTTP requests
type MessageHandler struct {
	coordinator Coordinator
	registry    PageRegistry
	deps        interfaces.Dependencies
	store       *settings.Store
}

// NewMessageHandler creates a new message handler. The registry may be
// nil when the host binding tracks pages itself.
func NewMessageHandler(coordinator Coordinator, registry PageRegistry, deps interfaces.Dependencies, store *settings.Store) *MessageHandler {
	return &MessageHandler{
		coordinator: coordinator,
		registry:    registry,
		deps:        deps,
		store:       store,
	}
}

// RegisterRoutes registers all message and page routes
func (h *MessageHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "createViaApi",
		Method:      http.MethodPost,
		Path:        "/messages/create-via-api",
		Summary:     "Import the recipe at a URL",
		Description: "Runs the full import policy: configuration gate, optional duplicate check, create call, optional editor follow-up",
		Tags:        []string{"Messages"},
	}, h.CreateViaAPI)

	huma.Register(api, huma.Operation{
		OperationID: "checkDuplicate",
		Method:      http.MethodPost,
		Path:        "/messages/check-duplicate",
		Summary:     "Check whether a URL was already imported",
		Tags:        []string{"Messages"},
	}, h.CheckDuplicate)

	huma.Register(api, huma.Operation{
		OperationID: "isRecipePage",
		Method:      http.MethodPost,
		Path:        "/messages/is-recipe-page",
		Summary:     "Check whether the server can scrape a recipe from a URL",
		Tags:        []string{"Messages"},
	}, h.IsRecipePage)

	huma.Register(api, huma.Operation{
		OperationID: "openPopup",
		Method:      http.MethodPost,
		Path:        "/messages/open-popup",
		Summary:     "Open the settings popup",
		Tags:        []string{"Messages"},
	}, h.OpenPopup)

	huma.Register(api, huma.Operation{
		OperationID: "pageLoaded",
		Method:      http.MethodPost,
		Path:        "/pages/{pageID}/loaded",
		Summary:     "Report a completed page load",
		Description: "Triggers content-controller injection when the page matches a user-approved site",
		Tags:        []string{"Pages"},
	}, h.PageLoaded)

	huma.Register(api, huma.Operation{
		OperationID: "pageUnloaded",
		Method:      http.MethodDelete,
		Path:        "/pages/{pageID}",
		Summary:     "Report a page teardown",
		Tags:        []string{"Pages"},
	}, h.PageUnloaded)

	huma.Register(api, huma.Operation{
		OperationID: "pageWarning",
		Method:      http.MethodGet,
		Path:        "/pages/{pageID}/warning",
		Summary:     "Read a page's pending permission warning",
		Tags:        []string{"Pages"},
	}, h.PageWarning)

	huma.Register(api, huma.Operation{
		OperationID: "evaluatePage",
		Method:      http.MethodPost,
		Path:        "/pages/evaluate",
		Summary:     "Run the button-mount pipeline against a page snapshot",
		Description: "Decides whether the action button belongs on the page and returns the resulting document",
		Tags:        []string{"Pages"},
	}, h.EvaluatePage)
}

// MessageInput is the body shared by URL-carrying message endpoints
type MessageInput struct {
	Body struct {
		URL string `json:"url" minLength:"1" doc:"Page URL the message concerns"`
	}
}

// CreateViaAPIOutput wraps the coordinator's create reply
type CreateViaAPIOutput struct {
	Body domain.CreateReply
}

// CreateViaAPI handles POST /messages/create-via-api
func (h *MessageHandler) CreateViaAPI(ctx context.Context, input *MessageInput) (*CreateViaAPIOutput, error) {
	reply, _ := h.coordinator.Dispatch(ctx, domain.Message{
		Type: domain.MessageCreateViaAPI,
		URL:  input.Body.URL,
	}).(domain.CreateReply)
	return &CreateViaAPIOutput{Body: reply}, nil
}

// CheckDuplicateOutput wraps the coordinator's duplicate reply
type CheckDuplicateOutput struct {
	Body domain.DuplicateReply
}

// CheckDuplicate handles POST /messages/check-duplicate
func (h *MessageHandler) CheckDuplicate(ctx context.Context, input *MessageInput) (*CheckDuplicateOutput, error) {
	reply, _ := h.coordinator.Dispatch(ctx, domain.Message{
		Type: domain.MessageCheckDuplicate,
		URL:  input.Body.URL,
	}).(domain.DuplicateReply)
	return &CheckDuplicateOutput{Body: reply}, nil
}

// IsRecipePageOutput wraps the coordinator's detection reply
type IsRecipePageOutput struct {
	Body domain.DetectReply
}

// IsRecipePage handles POST /messages/is-recipe-page
func (h *MessageHandler) IsRecipePage(ctx context.Context, input *MessageInput) (*IsRecipePageOutput, error) {
	reply, _ := h.coordinator.Dispatch(ctx, domain.Message{
		Type: domain.MessageIsRecipePage,
		URL:  input.Body.URL,
	}).(domain.DetectReply)
	return &IsRecipePageOutput{Body: reply}, nil
}

// OpenPopupOutput acknowledges a popup request
type OpenPopupOutput struct {
	Body struct {
		Acknowledged bool `json:"acknowledged"`
	}
}

// OpenPopup handles POST /messages/open-popup
func (h *MessageHandler) OpenPopup(ctx context.Context, input *struct{}) (*OpenPopupOutput, error) {
	h.coordinator.Dispatch(ctx, domain.Message{Type: domain.MessageOpenPopup})
	out := &OpenPopupOutput{}
	out.Body.Acknowledged = true
	return out, nil
}

// PageLoadedInput identifies a page instance and its URL
type PageLoadedInput struct {
	PageID string `path:"pageID" doc:"Page instance identifier"`
	Body   struct {
		URL string `json:"url" minLength:"1" doc:"URL the page loaded"`
	}
}

// PageLoadedOutput acknowledges a page load
type PageLoadedOutput struct {
	Body struct {
		Acknowledged bool `json:"acknowledged"`
	}
}

// PageLoaded handles POST /pages/{pageID}/loaded
func (h *MessageHandler) PageLoaded(ctx context.Context, input *PageLoadedInput) (*PageLoadedOutput, error) {
	if h.registry != nil {
		h.registry.RecordPage(input.PageID, input.Body.URL)
	}
	h.coordinator.HandlePageLoad(ctx, input.PageID, input.Body.URL)
	out := &PageLoadedOutput{}
	out.Body.Acknowledged = true
	return out, nil
}

// PageUnloadedInput identifies the page being torn down
type PageUnloadedInput struct {
	PageID string `path:"pageID" doc:"Page instance identifier"`
}

// PageUnloadedOutput acknowledges a teardown
type PageUnloadedOutput struct {
	Body struct {
		Acknowledged bool `json:"acknowledged"`
	}
}

// PageUnloaded handles DELETE /pages/{pageID}
func (h *MessageHandler) PageUnloaded(ctx context.Context, input *PageUnloadedInput) (*PageUnloadedOutput, error) {
	h.coordinator.HandlePageUnload(ctx, input.PageID)
	if h.registry != nil {
		h.registry.ForgetPage(input.PageID)
	}
	out := &PageUnloadedOutput{}
	out.Body.Acknowledged = true
	return out, nil
}

// PageWarningInput identifies the page being queried
type PageWarningInput struct {
	PageID string `path:"pageID" doc:"Page instance identifier"`
}

// PageWarningOutput reports a page's pending permission warning
type PageWarningOutput struct {
	Body struct {
		Warning bool   `json:"warning"`
		Site    string `json:"site,omitempty" doc:"Approved site whose permission is missing"`
	}
}

// PageWarning handles GET /pages/{pageID}/warning
func (h *MessageHandler) PageWarning(ctx context.Context, input *PageWarningInput) (*PageWarningOutput, error) {
	out := &PageWarningOutput{}
	out.Body.Site, out.Body.Warning = h.coordinator.Warning(input.PageID)
	return out, nil
}

// EvaluatePageInput carries a page snapshot for the mount pipeline
type EvaluatePageInput struct {
	Body struct {
		URL  string `json:"url" minLength:"1" doc:"Page URL"`
		HTML string `json:"html" minLength:"1" doc:"Page HTML snapshot"`
	}
}

// EvaluatePageOutput reports the mount decision and resulting document
type EvaluatePageOutput struct {
	Body struct {
		Mounted bool   `json:"mounted"`
		State   string `json:"state" doc:"Button state after evaluation"`
		HTML    string `json:"html,omitempty" doc:"Document with the button mounted, when it was"`
	}
}

// EvaluatePage handles POST /pages/evaluate
func (h *MessageHandler) EvaluatePage(ctx context.Context, input *EvaluatePageInput) (*EvaluatePageOutput, error) {
	page, err := goquerypage.NewPage(input.Body.URL, input.Body.HTML)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid page HTML", err)
	}

	controller := content.NewController(h.deps, h.store, h.coordinator, page)
	mounted, err := controller.EvaluatePage(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	out := &EvaluatePageOutput{}
	out.Body.Mounted = mounted
	out.Body.State = string(controller.State())
	if mounted {
		html, err := page.HTML()
		if err != nil {
			return nil, toHumaError(err)
		}
		out.Body.HTML = html
	}
	return out, nil
}
