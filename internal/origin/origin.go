// Package origin decides which Origin headers may submit to a form, and
// what value the Access-Control-Allow-Origin response header should carry.
package origin

import (
	"net/url"
	"strings"
)

// Wildcard is the permissive CORS origin. It is echoed whenever a form has
// no allow-list, and on every error response so browsers can read the error
// body instead of reporting an opaque network failure.
const Wildcard = "*"

// Normalize canonicalizes an origin for comparison: surrounding whitespace
// and trailing slashes are dropped and the result is lowercased. Applying
// it twice yields the same string.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, "/") {
		s = strings.TrimSuffix(s, "/")
	}
	return strings.ToLower(s)
}

// Resolution is the outcome of matching a request origin against a form's
// allow-list.
type Resolution struct {
	Accepted bool
	// EffectiveOrigin is the value to reflect in
	// Access-Control-Allow-Origin when Accepted is true.
	EffectiveOrigin string
}

// Validator matches request origins against per-form allow-lists.
// TrustedSuffixes is an escape hatch for the platform's own hosted preview
// domains: an origin whose host ends with any of these suffixes is accepted
// even when absent from the allow-list.
type Validator struct {
	TrustedSuffixes []string
}

// Resolve applies the allow-list policy. An empty list accepts any origin
// and reflects the wildcard. A non-empty list accepts only an exact
// normalized match or a trusted-suffix host.
func (v *Validator) Resolve(requestOrigin string, allowList []string) Resolution {
	if len(allowList) == 0 {
		return Resolution{Accepted: true, EffectiveOrigin: Wildcard}
	}

	norm := Normalize(requestOrigin)
	for _, allowed := range allowList {
		if norm != "" && norm == Normalize(allowed) {
			return Resolution{Accepted: true, EffectiveOrigin: norm}
		}
	}

	if v.trustedHost(norm) {
		return Resolution{Accepted: true, EffectiveOrigin: norm}
	}

	return Resolution{}
}

// trustedHost reports whether the normalized origin's host carries one of
// the trusted platform suffixes.
func (v *Validator) trustedHost(norm string) bool {
	if norm == "" || len(v.TrustedSuffixes) == 0 {
		return false
	}
	u, err := url.Parse(norm)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := u.Hostname()
	for _, suffix := range v.TrustedSuffixes {
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if suffix != "" && strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}
