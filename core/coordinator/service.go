// ABOUTME: Background coordinator dispatches cross-context messages and enforces import policy
// ABOUTME: Sole holder of the API token in active use; replies are closed generic shapes

package coordinator

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/mealie"
	"mealie-bridge-api/core/settings"
)

// Fixed reply strings. Upstream error text never crosses the reply
// boundary; these are the only error messages a caller can observe.
const (
	replyDuplicate  = "Recipe already imported"
	replySendFailed = "Failed to send recipe"
)

// Scrape probes are deterministic per URL on the server side, so
// detection replies can be cached briefly to spare repeated probes during
// reloads of the same page.
const (
	probeCacheTTL     = 10 * time.Minute
	probeCacheCleanup = 30 * time.Minute
)

// Service is the background coordinator. It owns message dispatch from
// content and settings contexts, applies the duplicate-check and
// edit-after-import policies, and tracks per-page permission warnings.
type Service struct {
	deps             interfaces.Dependencies
	store            *settings.Store
	probeCache       *gocache.Cache
	warnings         *warningState
	clientOpts       []mealie.Option
	slugPollAttempts int
	followUp         func(func())
}

// Option customizes the coordinator.
type Option func(*Service)

// WithClientOptions forwards options to the API clients the coordinator
// builds per request.
func WithClientOptions(opts ...mealie.Option) Option {
	return func(s *Service) {
		s.clientOpts = opts
	}
}

// WithSlugPollAttempts overrides how many times the editor follow-up
// polls for a slug.
func WithSlugPollAttempts(n int) Option {
	return func(s *Service) {
		s.slugPollAttempts = n
	}
}

// WithFollowUpRunner replaces the goroutine runner used for
// fire-and-forget follow-ups. Tests inject a synchronous runner.
func WithFollowUpRunner(run func(func())) Option {
	return func(s *Service) {
		s.followUp = run
	}
}

// NewService creates the coordinator.
func NewService(deps interfaces.Dependencies, store *settings.Store, opts ...Option) *Service {
	s := &Service{
		deps:             deps,
		store:            store,
		probeCache:       gocache.New(probeCacheTTL, probeCacheCleanup),
		warnings:         newWarningState(),
		slugPollAttempts: mealie.DefaultSlugPollAttempts,
		followUp:         func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dispatch routes a protocol message to its handler and returns the
// reply value. Unknown message types return nil.
func (s *Service) Dispatch(ctx context.Context, msg domain.Message) interface{} {
	switch msg.Type {
	case domain.MessageCreateViaAPI:
		return s.CreateViaAPI(ctx, msg.URL)
	case domain.MessageCheckDuplicate:
		return s.CheckDuplicate(ctx, msg.URL)
	case domain.MessageIsRecipePage:
		return s.IsRecipePage(ctx, msg.URL)
	case domain.MessageOpenPopup:
		s.OpenPopup(ctx)
		return nil
	default:
		s.deps.Logger.Warn("Unknown message type", map[string]interface{}{
			"type": string(msg.Type),
		})
		return nil
	}
}

// CreateViaAPI handles a send request: configuration gate, optional
// duplicate check, create call, optional editor follow-up. The reply is
// always a closed shape; failures carry fixed generic strings.
func (s *Service) CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply {
	cfg, err := s.store.Load(ctx)
	if err != nil {
		s.deps.Logger.Error("Failed to load settings", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.CreateReply{Success: false, Error: replySendFailed}
	}

	if !cfg.IsConfigured() {
		// Never attempt the network call without both URL and token;
		// direct the user to the settings popup instead.
		s.OpenPopup(ctx)
		return domain.CreateReply{Success: false}
	}

	client := s.newClient(cfg)

	if cfg.EnableDuplicateCheck {
		existing, err := client.FindByOriginURL(ctx, pageURL)
		if err != nil {
			// A failed duplicate lookup must not block the import
			s.deps.Logger.Warn("Duplicate check failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		if existing != nil {
			reply := domain.CreateReply{
				Success:   false,
				Error:     replyDuplicate,
				Duplicate: true,
				Recipe:    existing,
			}
			if cfg.OpenEditAfterImport {
				// Fire-and-forget: must not block or alter the reply
				s.followUp(func() {
					s.openEditor(client, existing, cfg.EnableParseOnEdit)
				})
			}
			return reply
		}
	}

	ref, err := client.CreateRecipeFromURL(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Error("Recipe import failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return domain.CreateReply{Success: false, Error: replySendFailed}
	}

	s.deps.Logger.Info("Recipe imported", map[string]interface{}{
		"url":  pageURL,
		"slug": ref.Slug,
	})

	if cfg.OpenEditAfterImport {
		s.followUp(func() {
			s.openEditor(client, ref, cfg.EnableParseOnEdit)
		})
	}

	return domain.CreateReply{Success: true}
}

// CheckDuplicate answers a checkDuplicate request. All failures collapse
// to exists:false.
func (s *Service) CheckDuplicate(ctx context.Context, pageURL string) domain.DuplicateReply {
	cfg, err := s.store.Load(ctx)
	if err != nil || !cfg.IsConfigured() {
		return domain.DuplicateReply{Exists: false}
	}

	existing, err := s.newClient(cfg).FindByOriginURL(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Debug("Duplicate lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.DuplicateReply{Exists: false}
	}
	return domain.DuplicateReply{Exists: existing != nil}
}

// IsRecipePage answers a detection request via the scrape probe. All
// failures collapse to isRecipe:false. Probe results are cached per URL.
func (s *Service) IsRecipePage(ctx context.Context, pageURL string) domain.DetectReply {
	cfg, err := s.store.Load(ctx)
	if err != nil || !cfg.IsConfigured() {
		return domain.DetectReply{IsRecipe: false}
	}

	if cached, found := s.probeCache.Get(pageURL); found {
		return domain.DetectReply{IsRecipe: cached.(bool)}
	}

	isRecipe, err := s.newClient(cfg).ProbeScrapeCompatibility(ctx, pageURL)
	if err != nil {
		s.deps.Logger.Debug("Scrape probe failed", map[string]interface{}{
			"error": err.Error(),
		})
		return domain.DetectReply{IsRecipe: false}
	}

	s.probeCache.Set(pageURL, isRecipe, gocache.DefaultExpiration)
	return domain.DetectReply{IsRecipe: isRecipe}
}

// OpenPopup asks the host platform to open the settings popup.
// Best-effort.
func (s *Service) OpenPopup(ctx context.Context) {
	if err := s.deps.Browser.OpenPopup(ctx); err != nil {
		s.deps.Logger.Debug("Failed to open popup", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// openEditor resolves the recipe slug and opens the server's editor deep
// link. Runs detached from the originating request: failures are logged,
// never surfaced, because the import already succeeded.
func (s *Service) openEditor(client *mealie.Client, ref *domain.RecipeReference, parse bool) {
	ctx := context.Background()

	ref = client.WaitForSlug(ctx, ref, s.slugPollAttempts)
	if !ref.HasSlug() {
		s.deps.Logger.Warn("Cannot open editor without a slug", map[string]interface{}{
			"recipe_id": ref.ID,
		})
		return
	}

	groupSlug, err := client.FetchGroupSlug(ctx)
	if err != nil || groupSlug == "" {
		s.deps.Logger.Warn("Failed to fetch group slug", map[string]interface{}{
			"error": fmt.Sprint(err),
		})
		return
	}

	editURL := client.EditorURL(groupSlug, ref.Slug, parse)
	if err := s.deps.Browser.OpenTab(ctx, editURL); err != nil {
		s.deps.Logger.Warn("Failed to open editor tab", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Service) newClient(cfg *domain.Settings) *mealie.Client {
	return mealie.NewClient(s.deps, cfg.ServerURL, cfg.APIToken, s.clientOpts...)
}
