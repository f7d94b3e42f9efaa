// ABOUTME: Page implementation over a parsed HTML document using goquery
// ABOUTME: Gives the content controller a DOM-like surface for element checks and button mounts

package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page implements the Page interface over a goquery document.
type Page struct {
	url string
	doc *goquery.Document
}

// NewPage parses the HTML payload of a page.
func NewPage(url, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return &Page{url: url, doc: doc}, nil
}

// URL returns the page's URL
func (p *Page) URL() string {
	return p.url
}

// HasElement reports whether an element with the given id exists
func (p *Page) HasElement(id string) bool {
	return p.doc.Find("#" + id).Length() > 0
}

// MountButton appends a button element to the document body
func (p *Page) MountButton(id, label string) error {
	body := p.doc.Find("body")
	if body.Length() == 0 {
		return fmt.Errorf("page has no body element")
	}
	body.AppendHtml(fmt.Sprintf(`<button id=%q type="button">%s</button>`, id, label))
	return nil
}

// HTML renders the current document, including any mounted button.
func (p *Page) HTML() (string, error) {
	return p.doc.Html()
}
