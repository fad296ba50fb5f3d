package domain

import (
	"net/url"
	"strings"
)

// Known URL hosts for each social handle kind.
var (
	telegramHosts = map[string]bool{"t.me": true, "telegram.me": true}
	twitterHosts  = map[string]bool{"twitter.com": true, "x.com": true}
	linkedinHosts = map[string]bool{"linkedin.com": true}
)

// NormalizeTelegramHandle extracts a bare telegram handle from a raw value.
func NormalizeTelegramHandle(raw string) string {
	return normalizeHandle(raw, telegramHosts, "")
}

// NormalizeTwitterHandle extracts a bare twitter/x handle from a raw value.
func NormalizeTwitterHandle(raw string) string {
	return normalizeHandle(raw, twitterHosts, "")
}

// NormalizeLinkedInHandle extracts a linkedin handle from a raw value.
// Profile URLs use the /in/<handle> shape.
func NormalizeLinkedInHandle(raw string) string {
	return normalizeHandle(raw, linkedinHosts, "in")
}

// normalizeHandle strips a leading @, and for values shaped like URLs of a
// known host extracts the handle path segment. Anything else passes through
// trimmed.
func normalizeHandle(raw string, hosts map[string]bool, pathPrefix string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	value = strings.TrimPrefix(value, "@")

	candidate := value
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return value
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	if !hosts[host] {
		return value
	}

	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if pathPrefix != "" {
		if len(segments) >= 2 && strings.EqualFold(segments[0], pathPrefix) {
			return strings.TrimPrefix(segments[1], "@")
		}
		return ""
	}
	if len(segments) >= 1 && segments[0] != "" {
		return strings.TrimPrefix(segments[0], "@")
	}
	return ""
}
