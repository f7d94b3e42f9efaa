package interfaces

import "context"

// Browser is the capability abstraction over the host platform's extension
// API surface. The two host platforms expose slightly different APIs
// (chrome.* vs browser.*, action vs browserAction); core logic depends only
// on this interface, never on a concrete host binding.
type Browser interface {
	// ExecuteScript makes the content controller present on the page
	// identified by pageID. Returns a PermissionDeniedError when the host
	// platform refuses the required page access.
	ExecuteScript(ctx context.Context, pageID string) error

	// OpenPopup opens the settings popup. Best-effort: platforms that do
	// not support programmatic popup opening return nil and do nothing.
	OpenPopup(ctx context.Context) error

	// OpenTab opens the given URL in a new tab.
	OpenTab(ctx context.Context, url string) error

	// ActiveTabURL returns the URL of the currently active tab.
	ActiveTabURL(ctx context.Context) (string, error)

	// ContainsPermission reports whether the host platform has already
	// granted access to the given origin pattern (e.g. "https://site/*").
	ContainsPermission(ctx context.Context, origin string) (bool, error)

	// RequestPermission asks the host platform to grant access to the
	// given origin pattern. Returns false when the user declines.
	RequestPermission(ctx context.Context, origin string) (bool, error)

	// RevokePermission removes a previously granted origin permission.
	RevokePermission(ctx context.Context, origin string) error

	// SetBadge attaches a warning badge and title to the page's action
	// control. Used for the per-page permission warning indicator.
	SetBadge(ctx context.Context, pageID, text, title string) error

	// ClearBadge removes the badge from the page's action control.
	ClearBadge(ctx context.Context, pageID string) error
}
