// ABOUTME: Page-load handling: conditional content-script injection on user-approved sites
// ABOUTME: Tracks a transient per-page permission warning indicator, never persisted

package coordinator

import (
	"context"
	"sync"

	coreerrors "mealie-bridge-api/core/errors"
	"mealie-bridge-api/core/whitelist"
)

// warningState maps page-instance ids to the approved domain whose
// permission is missing. In-memory only; cleared on injection success,
// page teardown, or when the page stops matching an approved site.
type warningState struct {
	mu      sync.Mutex
	entries map[string]string
}

func newWarningState() *warningState {
	return &warningState{entries: make(map[string]string)}
}

func (w *warningState) set(pageID, site string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.entries[pageID] == site {
		return false
	}
	w.entries[pageID] = site
	return true
}

func (w *warningState) clear(pageID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entries[pageID]; !ok {
		return false
	}
	delete(w.entries, pageID)
	return true
}

func (w *warningState) get(pageID string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	site, ok := w.entries[pageID]
	return site, ok
}

// HandlePageLoad reacts to a completed page load. When the page's domain
// matches a user-approved site, it asks the host platform to make the
// content controller present on that page. A permission refusal raises a
// per-page warning indicator; anything else is logged and dropped.
func (s *Service) HandlePageLoad(ctx context.Context, pageID, pageURL string) {
	sites, err := s.store.UserSites(ctx)
	if err != nil {
		s.deps.Logger.Error("Failed to load user sites", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if len(sites) == 0 {
		s.clearWarning(ctx, pageID)
		return
	}

	pageDomain := whitelist.DomainFromURL(pageURL)
	site, matched := whitelist.Match(pageDomain, sites)
	if !matched {
		s.clearWarning(ctx, pageID)
		return
	}

	if err := s.deps.Browser.ExecuteScript(ctx, pageID); err != nil {
		if coreerrors.IsPermissionDenied(err) {
			s.flagWarning(ctx, pageID, site)
			return
		}
		s.deps.Logger.Error("Failed to inject content controller", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
		return
	}

	s.clearWarning(ctx, pageID)
}

// HandlePageUnload clears transient state owned by the page instance.
func (s *Service) HandlePageUnload(ctx context.Context, pageID string) {
	s.clearWarning(ctx, pageID)
}

// Warning reports the pending permission warning for a page instance,
// returning the approved site it concerns.
func (s *Service) Warning(pageID string) (string, bool) {
	return s.warnings.get(pageID)
}

func (s *Service) flagWarning(ctx context.Context, pageID, site string) {
	if !s.warnings.set(pageID, site) {
		return
	}
	title := "Grant permission for " + site + " via the popup"
	if err := s.deps.Browser.SetBadge(ctx, pageID, "!", title); err != nil {
		s.deps.Logger.Debug("Failed to set warning badge", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
	}
	s.deps.Logger.Warn("Missing host permission", map[string]interface{}{
		"page_id": pageID,
		"site":    site,
	})
}

func (s *Service) clearWarning(ctx context.Context, pageID string) {
	if !s.warnings.clear(pageID) {
		return
	}
	if err := s.deps.Browser.ClearBadge(ctx, pageID); err != nil {
		s.deps.Logger.Debug("Failed to clear warning badge", map[string]interface{}{
			"page_id": pageID,
			"error":   err.Error(),
		})
	}
}
