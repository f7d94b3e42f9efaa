// ABOUTME: Local host binding for the Browser capability interface
// ABOUTME: Tracks pages, grants and badges in-process; opens tabs via the system browser

package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/pkg/browser"

	coreerrors "mealie-bridge-api/core/errors"
	"mealie-bridge-api/core/interfaces"
)

const grantedOriginsKey = "granted_origins"

// Browser implements the Browser capability interface for a locally
// running bridge. There is no real extension surface here: origin grants
// are persisted in Storage, badges are kept in memory for the API to
// expose, and tabs open in the system default browser.
type Browser struct {
	storage interfaces.Storage
	logger  interfaces.Logger

	mu        sync.Mutex
	pages     map[string]string
	badges    map[string]badge
	activeTab string

	openTab func(url string) error
}

type badge struct {
	text  string
	title string
}

// Option customizes the local browser binding.
type Option func(*Browser)

// WithTabOpener replaces the system-browser launcher. Tests inject a
// recorder.
func WithTabOpener(open func(url string) error) Option {
	return func(b *Browser) {
		b.openTab = open
	}
}

// NewBrowser creates a local browser binding.
func NewBrowser(storage interfaces.Storage, logger interfaces.Logger, opts ...Option) *Browser {
	b := &Browser{
		storage: storage,
		logger:  logger,
		pages:   make(map[string]string),
		badges:  make(map[string]badge),
		openTab: browser.OpenURL,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RecordPage registers a page instance and its URL. The most recently
// recorded page becomes the active tab.
func (b *Browser) RecordPage(pageID, pageURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages[pageID] = pageURL
	b.activeTab = pageURL
}

// ForgetPage drops a page instance on teardown.
func (b *Browser) ForgetPage(pageID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pages, pageID)
	delete(b.badges, pageID)
}

// ExecuteScript marks the page as eligible for the content controller.
// It fails with a PermissionDeniedError when the page's origin has no
// recorded grant, mirroring the host platform's injection refusal.
func (b *Browser) ExecuteScript(ctx context.Context, pageID string) error {
	b.mu.Lock()
	pageURL, ok := b.pages[pageID]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown page %s", pageID)
	}

	origin, err := originPattern(pageURL)
	if err != nil {
		return err
	}

	granted, err := b.ContainsPermission(ctx, origin)
	if err != nil {
		return err
	}
	if !granted {
		return &coreerrors.PermissionDeniedError{Origin: origin}
	}
	return nil
}

// OpenPopup is a no-op: a locally running bridge has no popup surface
// to open programmatically.
func (b *Browser) OpenPopup(ctx context.Context) error {
	b.logger.Info("Popup requested", nil)
	return nil
}

// OpenTab opens the URL in the system default browser.
func (b *Browser) OpenTab(ctx context.Context, url string) error {
	return b.openTab(url)
}

// ActiveTabURL returns the URL of the most recently recorded page.
func (b *Browser) ActiveTabURL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.activeTab == "" {
		return "", errors.New("no active tab")
	}
	return b.activeTab, nil
}

// ContainsPermission reports whether the origin pattern has a recorded
// grant.
func (b *Browser) ContainsPermission(ctx context.Context, origin string) (bool, error) {
	grants, err := b.loadGrants(ctx)
	if err != nil {
		return false, err
	}
	for _, granted := range grants {
		if granted == origin {
			return true, nil
		}
	}
	return false, nil
}

// RequestPermission records a grant for the origin pattern. Without an
// interactive prompt the request always succeeds; the persisted grant
// list is the user-visible record.
func (b *Browser) RequestPermission(ctx context.Context, origin string) (bool, error) {
	grants, err := b.loadGrants(ctx)
	if err != nil {
		return false, err
	}
	for _, granted := range grants {
		if granted == origin {
			return true, nil
		}
	}
	if err := b.saveGrants(ctx, append(grants, origin)); err != nil {
		return false, err
	}
	return true, nil
}

// RevokePermission removes a recorded grant.
func (b *Browser) RevokePermission(ctx context.Context, origin string) error {
	grants, err := b.loadGrants(ctx)
	if err != nil {
		return err
	}
	kept := grants[:0]
	for _, granted := range grants {
		if granted != origin {
			kept = append(kept, granted)
		}
	}
	return b.saveGrants(ctx, kept)
}

// SetBadge records a warning badge for the page.
func (b *Browser) SetBadge(ctx context.Context, pageID, text, title string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.badges[pageID] = badge{text: text, title: title}
	return nil
}

// ClearBadge removes the page's badge.
func (b *Browser) ClearBadge(ctx context.Context, pageID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.badges, pageID)
	return nil
}

// Badge returns the page's badge text and title, if one is set.
func (b *Browser) Badge(pageID string) (text, title string, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	set, ok := b.badges[pageID]
	return set.text, set.title, ok
}

func (b *Browser) loadGrants(ctx context.Context) ([]string, error) {
	data, err := b.storage.Get(ctx, grantedOriginsKey)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var grants []string
	if err := json.Unmarshal(data, &grants); err != nil {
		return nil, err
	}
	return grants, nil
}

func (b *Browser) saveGrants(ctx context.Context, grants []string) error {
	if grants == nil {
		grants = []string{}
	}
	data, err := json.Marshal(grants)
	if err != nil {
		return err
	}
	return b.storage.Set(ctx, grantedOriginsKey, data)
}

// originPattern derives the host-permission pattern for a page URL.
func originPattern(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid page URL %q", pageURL)
	}
	return fmt.Sprintf("%s://%s/*", u.Scheme, u.Host), nil
}
