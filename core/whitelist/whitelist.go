// ABOUTME: Built-in whitelist of recipe-capable domains and suffix matching rules
// ABOUTME: A page domain matches when, after stripping a leading www., it ends with an entry

package whitelist

import (
	"net/url"
	"strings"
)

// Default is the built-in list of supported recipe domains. Additional
// sites may be added only through an explicit user approval backed by a
// host-permission grant.
var Default = []string{
	"allrecipes.com",
	"eatingwell.com",
	"foodnetwork.com",
	"food.com",
	"simplyrecipes.com",
	"seriouseats.com",
	"budgetbytes.com",
	"tasty.co",
	"tastykitchen.com",
	"skinnytaste.com",
	"bbcgoodfood.com",
	"thepioneerwoman.com",
	"cooking.nytimes.com",
	"sallysbakingaddiction.com",
	"thespruceeats.com",
}

// StripWWW removes a single leading "www." from a hostname.
func StripWWW(hostname string) string {
	return strings.TrimPrefix(hostname, "www.")
}

// DomainFromURL extracts the whitelist-comparable domain from a page URL:
// the hostname with a leading www. stripped. Returns an empty string when
// the URL cannot be parsed.
func DomainFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return StripWWW(u.Hostname())
}

// Matches reports whether domain equals or is a subdomain of any entry in
// the given sets. The caller is expected to have stripped the leading
// www. already.
func Matches(domain string, sets ...[]string) bool {
	_, ok := Match(domain, sets...)
	return ok
}

// Match returns the first entry the domain matches, for warning messages
// that name the approved site. The second return is false when nothing
// matches.
func Match(domain string, sets ...[]string) (string, bool) {
	if domain == "" {
		return "", false
	}
	for _, set := range sets {
		for _, entry := range set {
			if entry != "" && matchesEntry(domain, entry) {
				return entry, true
			}
		}
	}
	return "", false
}

// matchesEntry matches on label boundaries: "cooking.nytimes.com" matches
// the entry "nytimes.com" but "notallrecipes.com" does not match
// "allrecipes.com".
func matchesEntry(domain, entry string) bool {
	return domain == entry || strings.HasSuffix(domain, "."+entry)
}
