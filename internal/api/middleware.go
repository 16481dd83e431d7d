package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackofish/market/internal/admin/auth"
)

type contextKey string

const (
	cartSessionKey contextKey = "cart_session"
	adminKey       contextKey = "admin"

	cartSessionCookie = "cart_session"
	adminTokenCookie  = "admin_token"
)

// CartSessionMiddleware gives every storefront visitor a stable session id.
// The cookie plays the role the browser's local storage key played: it
// scopes the persisted cart, nothing more.
func CartSessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(cartSessionCookie); err == nil && c.Value != "" {
			sessionID = c.Value
		} else {
			sessionID = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     cartSessionCookie,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int((90 * 24 * time.Hour).Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), cartSessionKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func cartSessionFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(cartSessionKey).(string); ok {
		return id
	}
	return ""
}

// AdminAuthMiddleware guards the back-office API with the admin_token
// cookie. Login itself is mounted outside the guarded subtree.
func AdminAuthMiddleware(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if c, err := r.Cookie(adminTokenCookie); err == nil {
				token = c.Value
			}

			admin, err := authService.Validate(r.Context(), token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "לא מורשה")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func adminFromContext(ctx context.Context) *auth.Admin {
	if admin, ok := ctx.Value(adminKey).(*auth.Admin); ok {
		return admin
	}
	return nil
}
