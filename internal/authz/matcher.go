package authz

import "strings"

// Matcher evaluates required permission slugs against one principal's
// granted set. Construction indexes the grants once; every check after
// that is a map lookup plus a prefix scan. A Matcher is immutable and
// safe for concurrent use.
type Matcher struct {
	super    bool
	exact    map[string]struct{}
	prefixes []string
}

// NewMatcher indexes the principal's normalized permission set.
func NewMatcher(p Principal) *Matcher {
	m := &Matcher{
		super: p.SuperUser,
		exact: make(map[string]struct{}, len(p.Permissions)),
	}
	for _, slug := range p.Permissions {
		switch {
		case slug == WildcardAll:
			m.super = true
		case IsPrefixWildcard(slug):
			m.prefixes = append(m.prefixes, strings.TrimSuffix(slug, wildcardSuffix))
		default:
			m.exact[slug] = struct{}{}
		}
	}
	return m
}

// MatcherForSlugs builds a Matcher for a hypothetical grant list with
// no role information, normalizing it first. Used by the preview
// engine and by tests; a real principal goes through NewPrincipal.
func MatcherForSlugs(granted []string) *Matcher {
	return NewMatcher(NewPrincipal(0, nil, granted))
}

// Has reports whether the single required slug is granted. Precedence:
// super-user bypass, then exact match, then prefix wildcards. A
// malformed required slug never matches.
func (m *Matcher) Has(required string) bool {
	if m.super {
		return true
	}
	if !WellFormed(required) {
		return false
	}
	if _, ok := m.exact[required]; ok {
		return true
	}
	for _, prefix := range m.prefixes {
		if strings.HasPrefix(required, prefix) {
			return true
		}
	}
	return false
}

// HasAny reports whether any of the required slugs is granted. An
// empty requirement list always allows: ungated resources are public
// to any authenticated principal, while an empty granted set denies
// every non-empty requirement.
func (m *Matcher) HasAny(required ...string) bool {
	if len(required) == 0 {
		return true
	}
	for _, slug := range required {
		if m.Has(slug) {
			return true
		}
	}
	return false
}

// HasAll reports whether every required slug is granted. An empty
// requirement list allows.
func (m *Matcher) HasAll(required ...string) bool {
	for _, slug := range required {
		if !m.Has(slug) {
			return false
		}
	}
	return true
}
