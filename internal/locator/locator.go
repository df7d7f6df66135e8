// Package locator computes the ordered list of URLs to try when fetching
// the target service's OpenAPI document. The context path a service is
// mounted under is often unknown ahead of time, so after the configured
// location a fixed set of common context-path guesses is appended. The
// resolver performs no I/O; the fetcher consumes its output in order.
package locator

import "strings"

// Candidate is one location the OpenAPI document may be served from,
// together with the context path implied by that location. The context
// path of the winning candidate is reused as the URL prefix for every
// subsequent tool-call request.
type Candidate struct {
	URL         string
	ContextPath string
}

// Config is the subset of endpoint configuration the resolver needs.
type Config struct {
	BaseURL     string
	ContextPath string
	OpenAPIPath string
	FullURL     string
}

// fallbackContexts are tried after the configured context path: no
// context, the common Spring "/api" mount, and the nested EMPI service
// path seen in existing deployments.
var fallbackContexts = []string{"", "/api", "/csi-api/empi-api/api"}

// Resolve returns the candidate URLs in priority order. An explicit full
// URL is the sole candidate; otherwise the configured context path comes
// first, followed by the fallback guesses, skipping duplicates.
func Resolve(cfg Config) []Candidate {
	if full := strings.TrimSpace(cfg.FullURL); full != "" {
		return []Candidate{{URL: full, ContextPath: trimContext(cfg.ContextPath)}}
	}

	base := strings.TrimRight(cfg.BaseURL, "/")
	path := strings.Trim(cfg.OpenAPIPath, "/")

	var candidates []Candidate
	seen := make(map[string]bool)

	add := func(ctx string) {
		ctx = trimContext(ctx)
		url := JoinURL(base, ctx, path)
		if seen[url] {
			return
		}
		seen[url] = true
		candidates = append(candidates, Candidate{URL: url, ContextPath: ctx})
	}

	if ctx := trimContext(cfg.ContextPath); ctx != "" {
		add(ctx)
	}
	for _, guess := range fallbackContexts {
		add(guess)
	}

	return candidates
}

// JoinURL joins a base URL with path segments using single slashes,
// dropping empty segments.
func JoinURL(base string, segments ...string) string {
	url := strings.TrimRight(base, "/")
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg == "" {
			continue
		}
		url += "/" + seg
	}
	return url
}

func trimContext(ctx string) string {
	return strings.Trim(strings.TrimSpace(ctx), "/")
}
