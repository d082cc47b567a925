package cms

import (
	"strings"

	"github.com/liangwei/kuaikuaichuhai-website/internal/domain"
)

// MediaResolver turns store-relative upload paths into absolute URLs.
type MediaResolver struct {
	origin string
}

// NewMediaResolver returns a resolver that prefixes relative paths with origin.
func NewMediaResolver(origin string) MediaResolver {
	return MediaResolver{origin: strings.TrimRight(strings.TrimSpace(origin), "/")}
}

// Resolve returns the absolute URL for path. Absolute URLs are returned
// unchanged; an empty path reports false.
func (r MediaResolver) Resolve(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	if isAbsoluteURL(path) || r.origin == "" {
		return path, true
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.origin + path, true
}

// Media returns a copy of m with its URL resolved, or nil when m has no URL.
func (r MediaResolver) Media(m *domain.Media) *domain.Media {
	if m == nil {
		return nil
	}
	u, ok := r.Resolve(m.URL)
	if !ok {
		return nil
	}
	out := *m
	out.URL = u
	return &out
}

func isAbsoluteURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(s, "//")
}
