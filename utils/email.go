package utils

import "strings"

const unknownDomain = "unknown.local"

// CompanyDomainFromEmail returns the lowercased domain part of an email address,
// which scopes every stored design, preview and logo.
func CompanyDomainFromEmail(email string) string {
	s := strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(s, "@")
	if at < 0 || at == len(s)-1 {
		return unknownDomain
	}
	return s[at+1:]
}
