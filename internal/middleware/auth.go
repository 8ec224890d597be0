package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/models"
)

const (
	msgTokenMissing = "Não autorizado, token ausente"
	authTimeout     = 5 * time.Second
)

type principalKey struct{}

// Authenticator resolves a bearer token to a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Principal, error)
}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p models.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal placed by Auth.
func PrincipalFrom(ctx context.Context) (models.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(models.Principal)
	return p, ok
}

// Auth rejects requests without a valid "Authorization: Bearer" token.
func Auth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, msgTokenMissing)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), authTimeout)
			p, err := a.Authenticate(ctx, token)
			cancel()
			if err != nil {
				appErr := apperr.As(err)
				if appErr.Kind == apperr.KindInternal {
					logger.Error("authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				}
				writeError(w, appErr.Status(), appErr.Message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), *p)))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
