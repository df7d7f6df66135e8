package requester

import (
	"fmt"
	"net/http"
	"strings"
)

// The two tenancy headers carrying multi-tenant routing information.
// Configured defaults satisfy them, so the tool builder never marks them
// required; callers may still override them per call under hyphenated or
// underscored, any-case spellings.
const (
	HeaderGroup    = "X-Group"
	HeaderHospital = "X-Hospital"
)

// CanonicalHeader normalizes a header name to its canonical MIME form,
// folding underscores to hyphens first ("x_group" -> "X-Group").
func CanonicalHeader(name string) string {
	return http.CanonicalHeaderKey(strings.ReplaceAll(name, "_", "-"))
}

// IsTenancyHeader reports whether name is one of the tenancy headers under
// any accepted spelling.
func IsTenancyHeader(name string) bool {
	switch CanonicalHeader(name) {
	case HeaderGroup, HeaderHospital:
		return true
	}
	return false
}

// EffectiveHeaders computes the headers for a single call: configured
// defaults, then the operation's static headers, then declared header
// parameters supplied as arguments, then tenancy-header overrides. Later
// sources win; all keys are canonicalized so spelling variants collapse
// onto one entry.
func EffectiveHeaders(defaults, routeHeaders map[string]string, params map[string]interface{}, declared []string) map[string]string {
	headers := make(map[string]string, len(defaults)+len(routeHeaders))
	for k, v := range defaults {
		headers[CanonicalHeader(k)] = v
	}
	for k, v := range routeHeaders {
		headers[CanonicalHeader(k)] = v
	}

	for _, name := range declared {
		if v, ok := lookupParam(params, name); ok {
			headers[CanonicalHeader(name)] = fmt.Sprintf("%v", v)
		}
	}

	for _, name := range []string{HeaderGroup, HeaderHospital} {
		if v, ok := lookupParam(params, name); ok {
			headers[name] = fmt.Sprintf("%v", v)
		}
	}

	return headers
}

// lookupParam finds an argument by header name, accepting the exact key,
// then any key equal under case folding and hyphen/underscore exchange.
func lookupParam(params map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := params[name]; ok {
		return v, true
	}
	target := normalizeKey(name)
	for k, v := range params {
		if normalizeKey(k) == target {
			return v, true
		}
	}
	return nil, false
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.ReplaceAll(k, "_", "-"))
}
