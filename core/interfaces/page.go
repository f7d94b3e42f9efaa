package interfaces

// Page abstracts the document the content controller operates on. The
// controller only ever needs to know the page URL, whether its button
// element is already present, and how to mount it.
type Page interface {
	// URL returns the page's full URL.
	URL() string

	// HasElement reports whether an element with the given id exists.
	HasElement(id string) bool

	// MountButton appends the action button to the document body. The id
	// doubles as the idempotence guard: implementations must not create a
	// second element when one with the same id already exists.
	MountButton(id, label string) error
}
