package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func withPrincipal(r *http.Request, role user.Role) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), principalKey, Principal{UserID: "u-1", Role: role}))
}

func TestAdminArea(t *testing.T) {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if role := req.Header.Get("X-Role"); role != "" {
				req = withPrincipal(req, user.Role(role))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Use(AdminArea)
	r.Get("/bookings", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Delete("/bookings/{id}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "id") == "attended" {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	serve := func(method, path string, role user.Role) int {
		req := httptest.NewRequest(method, path, nil)
		if role != "" {
			req.Header.Set("X-Role", string(role))
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(http.MethodGet, "/bookings", ""))
	assert.Equal(t, http.StatusForbidden, serve(http.MethodGet, "/bookings", user.RoleTeacher))
	assert.Equal(t, http.StatusOK, serve(http.MethodGet, "/bookings", user.RoleAdmin))

	ok := testutil.ToFloat64(metrics.AdminActions.WithLabelValues("/bookings/{id}", "ok"))
	rejected := testutil.ToFloat64(metrics.AdminActions.WithLabelValues("/bookings/{id}", "rejected"))

	assert.Equal(t, http.StatusOK, serve(http.MethodDelete, "/bookings/b-1", user.RoleAdmin))
	assert.Equal(t, http.StatusConflict, serve(http.MethodDelete, "/bookings/attended", user.RoleAdmin))
	assert.Equal(t, ok+1, testutil.ToFloat64(metrics.AdminActions.WithLabelValues("/bookings/{id}", "ok")))
	assert.Equal(t, rejected+1, testutil.ToFloat64(metrics.AdminActions.WithLabelValues("/bookings/{id}", "rejected")))
}
