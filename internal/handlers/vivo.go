package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/celustock-backend/internal/models"
)

// OwnedResource is an owner-scoped Vivo service.
type OwnedResource[T any, I any] interface {
	List(ctx context.Context, owner models.Principal) ([]T, error)
	Get(ctx context.Context, owner models.Principal, id string) (*T, error)
	Create(ctx context.Context, owner models.Principal, in I) (*T, error)
	Update(ctx context.Context, owner models.Principal, id string, in I) (*T, error)
	Delete(ctx context.Context, owner models.Principal, id string) (string, error)
}

type VivoHandler[T any, I any] struct {
	svc OwnedResource[T, I]
}

func NewVivoHandler[T any, I any](svc OwnedResource[T, I]) *VivoHandler[T, I] {
	return &VivoHandler[T, I]{svc: svc}
}

func (h *VivoHandler[T, I]) List(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	docs, err := h.svc.List(ctx, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *VivoHandler[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Get(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *VivoHandler[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in I
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Create(ctx, p, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *VivoHandler[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var in I
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Update(ctx, p, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *VivoHandler[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	msg, err := h.svc.Delete(ctx, p, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}
