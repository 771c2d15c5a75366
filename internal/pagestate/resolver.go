package pagestate

import (
	"errors"
	"fmt"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

// ErrUnknownPage marks a registry lookup miss: a configuration error,
// not a permission denial. Callers log it at error level and serve the
// fail-closed state that accompanies it.
var ErrUnknownPage = errors.New("pagestate: unknown page key")

// State is the resolved authorization for one page: the access flag,
// section visibility, and per-action enablement keyed by the frozen
// GS_<ENTITY>_<ACTION> format. This is the sole source of truth for
// action-level enablement; UI layers never infer buttons from raw
// permission strings.
type State struct {
	Authorized bool            `json:"authorized"`
	PageKey    string          `json:"pageKey"`
	Sections   map[string]bool `json:"sections"`
	Actions    map[string]bool `json:"actions"`
}

// Classification buckets a State by its section vector. Purely derived
// from the output on every call; there is no stored state.
type Classification string

const (
	ClassUnauthorized         Classification = "UNAUTHORIZED"
	ClassAuthorizedNoSections Classification = "AUTHORIZED_NO_SECTIONS"
	ClassAuthorizedPartial    Classification = "AUTHORIZED_PARTIAL"
	ClassAuthorizedFull       Classification = "AUTHORIZED_FULL"
)

// Classification reports which bucket the state falls into.
func (s State) Classification() Classification {
	if !s.Authorized {
		return ClassUnauthorized
	}
	visible := 0
	for _, ok := range s.Sections {
		if ok {
			visible++
		}
	}
	switch {
	case visible == 0:
		return ClassAuthorizedNoSections
	case visible < len(s.Sections):
		return ClassAuthorizedPartial
	default:
		return ClassAuthorizedFull
	}
}

// Resolve computes the page state for one principal. An unknown page
// key fails closed: the returned state denies everything and the error
// distinguishes the configuration problem from a normal denial. A
// denied page returns authorized=false with empty section and action
// maps and a nil error; denial is a value, never an error.
func (r *Registry) Resolve(pageKey string, m *authz.Matcher) (State, error) {
	state := State{
		PageKey:  pageKey,
		Sections: map[string]bool{},
		Actions:  map[string]bool{},
	}
	page, ok := r.pages[pageKey]
	if !ok {
		return state, fmt.Errorf("%w: %q", ErrUnknownPage, pageKey)
	}
	if !m.HasAny(page.ReadPermission) {
		return state, nil
	}
	state.Authorized = true
	for _, section := range page.Sections {
		state.Sections[section.Key] = m.HasAny(section.RequiredPermissions...)
	}
	for _, mapping := range r.actions[entityScope{page.EntityKey, page.Scope}] {
		state.Actions[ActionKey(mapping.EntityKey, mapping.Action)] = m.HasAny(mapping.Permission)
	}
	return state, nil
}
