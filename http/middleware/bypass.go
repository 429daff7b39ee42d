package middleware

import (
	"path"
	"strings"
)

// BypassList holds the routes exempt from authentication.
// Entries are exact paths, or prefixes when written with a trailing "/*".
type BypassList struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewBypassList compiles the configured entries. Blank entries are ignored.
func NewBypassList(entries []string) *BypassList {
	b := &BypassList{exact: make(map[string]struct{}, len(entries))}
	for _, raw := range entries {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		if strings.HasSuffix(entry, "/*") {
			b.prefixes = append(b.prefixes, cleanPath(strings.TrimSuffix(entry, "/*")))
			continue
		}
		b.exact[cleanPath(entry)] = struct{}{}
	}
	return b
}

// Match reports whether p is exempt from authentication
func (b *BypassList) Match(p string) bool {
	if b == nil {
		return false
	}
	p = cleanPath(p)
	if _, ok := b.exact[p]; ok {
		return true
	}
	for _, prefix := range b.prefixes {
		if prefix == "/" || p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// cleanPath resolves dot segments so "/auth/login/../welcome" cannot pose as a bypassed route
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
