package middleware

import (
	"context"
	"net/http"
	"strings"

	"jobboard/internal/common"
	"jobboard/internal/domain/user"
	"jobboard/internal/http/response"
	"jobboard/internal/security"
)

type contextKey string

const contextPrincipalKey contextKey = "principal"

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		principal, err := m.principal(authHeader)
		if err != nil {
			response.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuthenticate lets anonymous requests through untouched. A request
// that does send credentials must send valid ones.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := m.principal(authHeader)
		if err != nil {
			response.Error(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *AuthMiddleware) principal(authHeader string) (user.Principal, error) {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return user.Principal{}, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil)
	}
	claims, err := m.jwt.Parse(strings.TrimSpace(parts[1]))
	if err != nil {
		return user.Principal{}, common.NewError(common.CodeUnauthorized, "invalid token", err)
	}
	userID, err := common.ParseUUID(claims.UserID)
	if err != nil {
		return user.Principal{}, common.NewError(common.CodeUnauthorized, "invalid user id", err)
	}
	role, ok := claims.ActiveRole()
	if !ok {
		return user.Principal{}, common.NewError(common.CodeForbidden, "role not selected", nil)
	}
	return user.Principal{ID: userID, Role: role}, nil
}

// RequireRole admits callers acting in any of the given roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "unauthorized", nil))
				return
			}
			for _, role := range roles {
				if principal.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
		})
	}
}

func WithPrincipal(ctx context.Context, principal user.Principal) context.Context {
	return context.WithValue(ctx, contextPrincipalKey, principal)
}

func PrincipalFromContext(ctx context.Context) (user.Principal, bool) {
	principal, ok := ctx.Value(contextPrincipalKey).(user.Principal)
	return principal, ok
}
