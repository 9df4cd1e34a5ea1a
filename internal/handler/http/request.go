package http

import (
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
)

// principal returns the authenticated caller or writes 401.
func principal(w http.ResponseWriter, r *http.Request) (middleware.Principal, bool) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || p.UserID == "" {
		response.Unauthorized(w, "User ID not found in token")
		return middleware.Principal{}, false
	}
	return p, true
}
