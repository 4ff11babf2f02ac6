package processor

import (
	"net/url"
	"regexp"
)

// exactRedirectURIs are the vetted callback URIs accepted verbatim.
var exactRedirectURIs = []string{
	"https://zapier.com/dashboard/auth/oauth/return/",
	"http://localhost:3000/oauth/callback",
}

// redirectURIPatterns allow a registered client's dynamic callback paths.
// Zapier appends a per-app segment to its return URL.
var redirectURIPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://zapier\.com/dashboard/auth/oauth/return/.*$`),
}

// RedirectAllowlist decides which redirect URIs may receive authorization
// codes. The same allowlist must be consulted at issuance and again at token
// exchange so a code issued for a vetted URI cannot be redeemed against an
// unvetted one.
type RedirectAllowlist struct {
	exact    map[string]struct{}
	patterns []*regexp.Regexp
}

// NewRedirectAllowlist builds the allowlist from the static entries plus any
// deployment-specific URIs from configuration.
func NewRedirectAllowlist(extraURIs []string) *RedirectAllowlist {
	exact := make(map[string]struct{}, len(exactRedirectURIs)+len(extraURIs))
	for _, uri := range exactRedirectURIs {
		exact[uri] = struct{}{}
	}
	for _, uri := range extraURIs {
		if uri != "" {
			exact[uri] = struct{}{}
		}
	}
	return &RedirectAllowlist{
		exact:    exact,
		patterns: redirectURIPatterns,
	}
}

// IsAllowed reports whether the candidate URI may be used as a redirect
// target. A URI that fails to parse is never allowed.
func (a *RedirectAllowlist) IsAllowed(candidate string) bool {
	parsed, err := url.Parse(candidate)
	if err != nil {
		return false
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return false
	}

	if _, ok := a.exact[candidate]; ok {
		return true
	}

	for _, pattern := range a.patterns {
		if pattern.MatchString(candidate) {
			return true
		}
	}

	return false
}
