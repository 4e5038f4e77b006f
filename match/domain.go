package match

import "strings"

// EmailDomain returns the lower cased domain of an email address.
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

// WebsiteDomain returns the host of a website URL without scheme or "www.".
func WebsiteDomain(website string) string {
	d := strings.TrimSpace(website)
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")

	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}

	return strings.ToLower(d)
}

// SameDomain compares domains case-insensitively.
func SameDomain(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	return a != "" && a == strings.ToLower(strings.TrimSpace(b))
}
