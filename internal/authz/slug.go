// Package authz implements the permission-resolution core: slug
// normalization, wildcard matching and the strict principal value type
// every decision is computed against.
package authz

import (
	"sort"
	"strings"
)

const (
	// WildcardAll grants every permission when present in a granted set.
	WildcardAll = "*"
	// wildcardSuffix marks a prefix grant, e.g. "billing:*".
	wildcardSuffix = ":*"
	// accessSegment is the synthetic trailing segment implied for every
	// ancestor of an operation slug.
	accessSegment = "access"
)

// IsPrefixWildcard reports whether the slug is a prefix grant of the
// form "<prefix>:*" with a non-empty prefix.
func IsPrefixWildcard(slug string) bool {
	if !strings.HasSuffix(slug, wildcardSuffix) {
		return false
	}
	prefix := strings.TrimSuffix(slug, wildcardSuffix)
	return prefix != "" && !strings.ContainsAny(prefix, "*:")
}

// WellFormed reports whether the slug is a plain dot-delimited path or
// one of the two recognized wildcard forms. Segments must be non-empty
// and free of the reserved wildcard characters.
func WellFormed(slug string) bool {
	if slug == WildcardAll || IsPrefixWildcard(slug) {
		return true
	}
	if slug == "" {
		return false
	}
	for _, segment := range strings.Split(slug, ".") {
		if segment == "" || strings.ContainsAny(segment, "*:") {
			return false
		}
	}
	return true
}

// Normalize closes the explicit grant list under the ancestor rule:
// every operation slug implies an "<ancestor>.access" slug for each
// proper prefix of its path, so that operation grants unlock the
// containing navigation hierarchy without separate access grants.
// Duplicates collapse and the result is sorted for stable output.
// Wildcard grants and malformed entries pass through verbatim.
func Normalize(explicit []string) []string {
	set := make(map[string]struct{}, len(explicit)*2)
	for _, slug := range explicit {
		slug = strings.TrimSpace(slug)
		if slug == "" {
			continue
		}
		set[slug] = struct{}{}
		if slug == WildcardAll || IsPrefixWildcard(slug) || !WellFormed(slug) {
			continue
		}
		segments := strings.Split(slug, ".")
		for k := 1; k < len(segments); k++ {
			implied := strings.Join(segments[:k], ".") + "." + accessSegment
			set[implied] = struct{}{}
		}
	}
	normalized := make([]string, 0, len(set))
	for slug := range set {
		normalized = append(normalized, slug)
	}
	sort.Strings(normalized)
	return normalized
}
