package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"awesomeblog/internal/models"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a session cookie value to a user, or nil.
type Authenticator interface {
	UserFromCookie(ctx context.Context, token string) *models.User
}

// Auth attaches the cookie's user to the request context. Paths under
// /manage/ require an administrator and redirect to /signin otherwise.
func Auth(auth Authenticator, cookieName string, logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var user *models.User
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				user = auth.UserFromCookie(r.Context(), c.Value)
				if user != nil {
					logger.Debug("set current user", zap.String("email", user.Email()))
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}

			if strings.HasPrefix(r.URL.Path, "/manage/") && (user == nil || !user.Admin()) {
				http.Redirect(w, r, "/signin", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// CurrentUser is the signed-in user for r, or nil.
func CurrentUser(r *http.Request) *models.User {
	if r == nil {
		return nil
	}
	return UserFromContext(r.Context())
}
