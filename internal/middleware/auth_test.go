package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/models"
)

type authenticatorFunc func(ctx context.Context, token string) (*models.Principal, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	return f(ctx, token)
}

func TestAuth(t *testing.T) {
	ana := models.Principal{ID: primitive.NewObjectID(), Nome: "Ana", Email: "ana@example.com"}
	auth := Auth(authenticatorFunc(func(ctx context.Context, token string) (*models.Principal, error) {
		switch token {
		case "good":
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return nil, errors.New("no deadline")
			}
			return &ana, nil
		case "down":
			return nil, errors.New("server selection error")
		default:
			return nil, apperr.Unauthorized("Não autorizado, token inválido")
		}
	}))

	var seen models.Principal
	protected := auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		seen = p
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing", "", http.StatusUnauthorized, `{"success":false,"message":"Não autorizado, token ausente"}`},
		{"not bearer", "Basic YWxhZGRpbjpvcGVuc2VzYW1l", http.StatusUnauthorized, `{"success":false,"message":"Não autorizado, token ausente"}`},
		{"invalid", "Bearer nope", http.StatusUnauthorized, `{"success":false,"message":"Não autorizado, token inválido"}`},
		{"store down", "Bearer down", http.StatusInternalServerError, `{"success":false,"message":"Erro interno do servidor"}`},
		{"ok", "bearer good", http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/celulares", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
	assert.Equal(t, ana, seen)
}

func TestPrincipalFrom_Empty(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	assert.False(t, ok)
}
