package middleware

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// AdminArea guards the /admin routes. Only admins pass, and every mutating
// request (approvals, overrides, deletions) leaves an audit line naming the
// admin and the outcome.
func AdminArea(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			response.Unauthorized(w, "Unauthorized")
			return
		}
		if p.Role != user.RoleAdmin {
			response.Forbidden(w, "Admin access required")
			return
		}
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		outcome := outcomeOf(ww.Status())
		metrics.AdminActions.WithLabelValues(route, outcome).Inc()
		slog.Info("Admin action", "admin_id", p.UserID, "method", r.Method, "route", route, "path", r.URL.Path,
			"status", ww.Status(), "outcome", outcome)
	})
}

func outcomeOf(status int) string {
	switch {
	case status == 0 || status < 300:
		return "ok"
	case status < 500:
		return "rejected"
	default:
		return "error"
	}
}
