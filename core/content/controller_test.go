package content

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/settings"
)

// manualScheduler collects revert timers so tests can fire them on demand
type manualScheduler struct {
	timers []func()
}

func (s *manualScheduler) schedule(d time.Duration, f func()) {
	s.timers = append(s.timers, f)
}

func (s *manualScheduler) fireAll() {
	for _, f := range s.timers {
		f()
	}
	s.timers = nil
}

type controllerEnv struct {
	controller *Controller
	messenger  *mockMessenger
	page       *mockPage
	storage    *mockStorage
	scheduler  *manualScheduler
}

func newControllerEnv(t *testing.T, pageURL string, cfg domain.Settings) *controllerEnv {
	t.Helper()
	storage := newMockStorage()
	deps := interfaces.Dependencies{
		Storage: storage,
		Logger:  mockLogger{},
	}
	store := settings.NewStore(deps)
	require.NoError(t, store.Save(context.Background(), &cfg))

	messenger := &mockMessenger{}
	page := newMockPage(pageURL)
	scheduler := &manualScheduler{}

	return &controllerEnv{
		controller: NewController(deps, store, messenger, page, WithScheduler(scheduler.schedule)),
		messenger:  messenger,
		page:       page,
		storage:    storage,
		scheduler:  scheduler,
	}
}

func recipeSite() domain.Settings {
	return domain.Settings{
		ServerURL: "https://mealie.local",
		APIToken:  "tok",
	}
}

func TestEvaluatePage_MountsOnWhitelistedRecipePage(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.True(t, mounted)
	assert.Equal(t, 1, env.page.mountCalls)
	assert.Equal(t, StateIdle, env.controller.State())
}

func TestEvaluatePage_SkipsNonWhitelistedDomain(t *testing.T) {
	env := newControllerEnv(t, "https://notarecipesite.example/page", recipeSite())

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.False(t, mounted)
	assert.Equal(t, 0, env.messenger.detectCalls, "detection must not run off-whitelist")
	assert.Equal(t, 0, env.page.mountCalls)
}

func TestEvaluatePage_SkipsWhenUnconfigured(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", domain.Settings{})

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.False(t, mounted)
	assert.Equal(t, 0, env.messenger.detectCalls, "an unconfigured server must not be probed")
}

func TestEvaluatePage_SkipsWhenDetectionDeclines(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/not-a-recipe", recipeSite())
	env.messenger.detectFunc = func(ctx context.Context, pageURL string) domain.DetectReply {
		return domain.DetectReply{IsRecipe: false}
	}

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.False(t, mounted)
	assert.Equal(t, 0, env.page.mountCalls)
}

func TestEvaluatePage_UserSiteMatches(t *testing.T) {
	cfg := recipeSite()
	cfg.UserSites = []string{"myblog.example"}
	env := newControllerEnv(t, "https://www.myblog.example/dinner", cfg)

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.True(t, mounted)
}

func TestEvaluatePage_Idempotent(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())

	for i := 0; i < 3; i++ {
		mounted, err := env.controller.EvaluatePage(context.Background())
		require.NoError(t, err)
		assert.True(t, mounted)
	}

	assert.Equal(t, 1, env.page.mountCalls, "repeat evaluations must never create a second button")
	assert.Equal(t, 1, env.messenger.detectCalls, "the element guard should skip repeat probes")
}

func TestEvaluatePage_DuplicatePreCheckDisablesButton(t *testing.T) {
	cfg := recipeSite()
	cfg.EnableDuplicateCheck = true
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", cfg)
	env.messenger.duplicateFunc = func(ctx context.Context, pageURL string) domain.DuplicateReply {
		return domain.DuplicateReply{Exists: true}
	}

	mounted, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.True(t, mounted)
	assert.Equal(t, StateSent, env.controller.State(), "already-imported pages go straight to the terminal state")

	// The terminal state blocks a redundant import
	env.controller.Click(context.Background())
	assert.Equal(t, 0, env.messenger.createCalls)
}

func TestEvaluatePage_NoDuplicatePreCheckWhenDisabled(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())

	_, err := env.controller.EvaluatePage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, env.messenger.duplicateCalls)
}

func TestClick_SuccessIsTerminal(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())
	_, err := env.controller.EvaluatePage(context.Background())
	require.NoError(t, err)

	env.controller.Click(context.Background())

	assert.Equal(t, StateSent, env.controller.State())

	// Sent never reverts and never resends
	env.scheduler.fireAll()
	env.controller.Click(context.Background())
	assert.Equal(t, StateSent, env.controller.State())
	assert.Equal(t, 1, env.messenger.createCalls)
}

func TestClick_DuplicateRevertsToIdle(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())
	_, err := env.controller.EvaluatePage(context.Background())
	require.NoError(t, err)
	env.messenger.createFunc = func(ctx context.Context, pageURL string) domain.CreateReply {
		return domain.CreateReply{Success: false, Duplicate: true, Error: "Recipe already imported"}
	}

	env.controller.Click(context.Background())
	assert.Equal(t, StateDuplicate, env.controller.State())

	env.scheduler.fireAll()
	assert.Equal(t, StateIdle, env.controller.State())
}

func TestClick_ErrorRevertsToIdle(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())
	_, err := env.controller.EvaluatePage(context.Background())
	require.NoError(t, err)
	env.messenger.createFunc = func(ctx context.Context, pageURL string) domain.CreateReply {
		return domain.CreateReply{Success: false, Error: "Failed to send recipe"}
	}

	env.controller.Click(context.Background())
	assert.Equal(t, StateError, env.controller.State())

	env.scheduler.fireAll()
	assert.Equal(t, StateIdle, env.controller.State())
}

func TestClick_DoubleClickGuard(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())
	_, err := env.controller.EvaluatePage(context.Background())
	require.NoError(t, err)

	env.messenger.createFunc = func(ctx context.Context, pageURL string) domain.CreateReply {
		// A second click while the first request is in flight must be dropped
		env.controller.Click(ctx)
		return domain.CreateReply{Success: true}
	}

	env.controller.Click(context.Background())

	assert.Equal(t, 1, env.messenger.createCalls)
}

func TestClick_UnconfiguredOpensPopup(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())
	_, err := env.controller.EvaluatePage(context.Background())
	require.NoError(t, err)

	// Configuration disappears between mount and click
	store := settings.NewStore(interfaces.Dependencies{Storage: env.storage})
	require.NoError(t, store.Save(context.Background(), &domain.Settings{}))

	env.controller.Click(context.Background())

	assert.Equal(t, 1, env.messenger.popupCalls)
	assert.Equal(t, 0, env.messenger.createCalls)
	assert.Equal(t, StateIdle, env.controller.State())
}

func TestClick_BeforeMountIsNoOp(t *testing.T) {
	env := newControllerEnv(t, "https://www.allrecipes.com/recipe/1", recipeSite())

	env.controller.Click(context.Background())

	assert.Equal(t, 0, env.messenger.createCalls)
}
