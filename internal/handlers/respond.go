package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/middleware"
	"github.com/AnshRaj112/celustock-backend/internal/models"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 1 << 20

	msgInvalidBody  = "Corpo da requisição inválido"
	msgUnauthorized = "Não autorizado"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// MessageResponse is returned by deletes.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

// writeError maps err to its status. Internal causes are logged and never
// sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	e := apperr.As(err)
	if e.Kind == apperr.KindInternal {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeJSON(w, e.Status(), ErrorResponse{
		Success: false,
		Message: e.Message,
		Errors:  e.Messages,
	})
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apperr.BadRequest(msgInvalidBody)
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

// actor is the optional caller recorded in activity entries.
func actor(r *http.Request) *models.Principal {
	if p, ok := middleware.PrincipalFrom(r.Context()); ok {
		return &p
	}
	return nil
}

// owner is the mandatory caller for owner-scoped routes.
func owner(r *http.Request) (models.Principal, error) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return models.Principal{}, apperr.Unauthorized(msgUnauthorized)
	}
	return p, nil
}
