package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/fashion-school-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalKey contextKey = "principal"

// Principal is the authenticated user of a request.
type Principal struct {
	UserID string
	Email  string
	Role   user.Role
}

// AuthRequired accepts verified access tokens and stores the Principal in
// the request context.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			claims, err := token.AsMap(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			roleStr, _ := claims["role"].(string)
			role, err := user.ParseRole(roleStr)
			if userID == "" || err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			email, _ := claims["email"].(string)

			ctx := context.WithValue(r.Context(), principalKey, Principal{UserID: userID, Email: email, Role: role})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// PrincipalFrom returns the authenticated user stored by AuthRequired.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
