package decision

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"log/slog"

	"github.com/gridstone-erp/gridstone-erp/internal/pagestate"
	"github.com/gridstone-erp/gridstone-erp/internal/shared"
)

// Guard wires Decision Center authorization into HTTP routes.
type Guard struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireAny ensures the current user holds at least one of the
// required permission slugs. An empty requirement passes everyone
// through, matching the matcher's default-open rule for ungated
// resources.
func (g Guard) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			userID, ok := g.currentUserID(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			matcher, err := g.Service.Matcher(r.Context(), userID)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("decision require any", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if matcher.HasAny(perms...) {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequirePage gates a route behind a page key's read permission via
// the page-state resolver, so guards and page rendering share one
// decision path. A registry miss fails closed.
func (g Guard) RequirePage(pageKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := g.currentUserID(r)
			if !ok {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}
			state, err := g.Service.PageState(r.Context(), userID, pageKey)
			if err != nil && !errors.Is(err, pagestate.ErrUnknownPage) {
				if g.Logger != nil {
					g.Logger.Error("decision require page", slog.String("page", pageKey), slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			if state.Authorized {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

func (g Guard) currentUserID(r *http.Request) (int64, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return 0, false
	}
	raw := strings.TrimSpace(sess.User())
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		if g.Logger != nil {
			g.Logger.Error("decision parse user id", slog.String("value", raw))
		}
		return 0, false
	}
	return id, true
}
