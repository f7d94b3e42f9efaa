// ABOUTME: Content controller decides once per page whether to mount the action button
// ABOUTME: Drives the button's finite state machine from user clicks and coordinator replies

package content

import (
	"context"
	"sync"
	"time"

	"mealie-bridge-api/core/domain"
	"mealie-bridge-api/core/interfaces"
	"mealie-bridge-api/core/settings"
	"mealie-bridge-api/core/whitelist"
)

// ButtonID is the unique element id guarding against duplicate mounts.
const ButtonID = "add-to-mealie-button"

const buttonLabel = "Send to Mealie"

// Revert timers are UI affordances, not protocol guarantees.
const (
	duplicateRevertAfter = 3 * time.Second
	errorRevertAfter     = 2 * time.Second
)

// State is the button's finite state.
type State string

// Button states. Sent is terminal for the page's lifetime; Duplicate and
// Error revert to Idle after a timeout.
const (
	StateIdle      State = "idle"
	StateSending   State = "sending"
	StateSent      State = "sent"
	StateDuplicate State = "duplicate"
	StateError     State = "error"
)

// Messenger is the controller's view of the background coordinator: an
// asynchronous request/single-reply channel, never a shared object.
type Messenger interface {
	CreateViaAPI(ctx context.Context, pageURL string) domain.CreateReply
	CheckDuplicate(ctx context.Context, pageURL string) domain.DuplicateReply
	IsRecipePage(ctx context.Context, pageURL string) domain.DetectReply
	OpenPopup(ctx context.Context)
}

// Controller runs once per page load. It owns the button's state
// exclusively; the state is never persisted.
type Controller struct {
	deps      interfaces.Dependencies
	store     *settings.Store
	messenger Messenger
	page      interfaces.Page

	mu      sync.Mutex
	mounted bool
	state   State

	schedule func(d time.Duration, f func())
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithScheduler replaces the revert-timer scheduler. Tests inject an
// immediate or manual scheduler.
func WithScheduler(schedule func(d time.Duration, f func())) ControllerOption {
	return func(c *Controller) {
		c.schedule = schedule
	}
}

// NewController creates a controller for one page.
func NewController(deps interfaces.Dependencies, store *settings.Store, messenger Messenger, page interfaces.Page, opts ...ControllerOption) *Controller {
	c := &Controller{
		deps:      deps,
		store:     store,
		messenger: messenger,
		page:      page,
		state:     StateIdle,
		schedule:  func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EvaluatePage runs the shouldShowButton pipeline: whitelist match,
// configuration gate, detection probe, mount, then the optional
// duplicate pre-check. Returns whether the button is (now) mounted.
// Idempotent: a page that already carries the button is left untouched.
func (c *Controller) EvaluatePage(ctx context.Context) (bool, error) {
	if c.page.HasElement(ButtonID) {
		c.mu.Lock()
		c.mounted = true
		c.mu.Unlock()
		return true, nil
	}

	pageDomain := whitelist.DomainFromURL(c.page.URL())

	cfg, err := c.store.Load(ctx)
	if err != nil {
		return false, err
	}

	builtin, err := c.store.Whitelist(ctx)
	if err != nil {
		return false, err
	}
	if !whitelist.Matches(pageDomain, builtin, cfg.UserSites) {
		return false, nil
	}

	// Don't probe a server that isn't configured
	if !cfg.IsConfigured() {
		return false, nil
	}

	if !c.messenger.IsRecipePage(ctx, c.page.URL()).IsRecipe {
		return false, nil
	}

	if err := c.page.MountButton(ButtonID, buttonLabel); err != nil {
		return false, err
	}

	c.mu.Lock()
	c.mounted = true
	c.state = StateIdle
	c.mu.Unlock()

	if cfg.EnableDuplicateCheck {
		if c.messenger.CheckDuplicate(ctx, c.page.URL()).Exists {
			// Already imported: jump straight to the terminal state
			// without a redundant import
			c.mu.Lock()
			c.state = StateSent
			c.mu.Unlock()
		}
	}

	return true, nil
}

// Click handles a user click on the button. Interactivity is disabled
// for the duration of the in-flight request: clicks during Sending are
// dropped, and Sent is terminal.
func (c *Controller) Click(ctx context.Context) {
	c.mu.Lock()
	if !c.mounted || c.state == StateSending || c.state == StateSent {
		c.mu.Unlock()
		return
	}

	cfg, err := c.store.Load(ctx)
	if err != nil || !cfg.IsConfigured() {
		c.mu.Unlock()
		c.messenger.OpenPopup(ctx)
		return
	}

	c.state = StateSending
	c.mu.Unlock()

	reply := c.messenger.CreateViaAPI(ctx, c.page.URL())

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case reply.Success:
		c.state = StateSent
	case reply.Duplicate:
		c.state = StateDuplicate
		c.scheduleRevert(StateDuplicate, duplicateRevertAfter)
	default:
		c.state = StateError
		c.scheduleRevert(StateError, errorRevertAfter)
	}
}

// State returns the button's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Mounted reports whether the button is present on the page.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

// scheduleRevert arms a timer that returns the button to Idle, but only
// if it is still in the state the timer was armed for. Callers hold the
// lock.
func (c *Controller) scheduleRevert(from State, after time.Duration) {
	c.schedule(after, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state == from {
			c.state = StateIdle
		}
	})
}
