package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/services"
)

// Resource is the CRUD surface shared by every main-stock service.
type Resource[T any, I any] interface {
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor *models.Principal, in I) (*T, error)
	Update(ctx context.Context, actor *models.Principal, id string, in I) (*T, error)
	Delete(ctx context.Context, actor *models.Principal, id string) (string, error)
}

// Catalog is a resource listed in full.
type Catalog[T any, I any] interface {
	Resource[T, I]
	List(ctx context.Context) ([]T, error)
}

type PhoneLister interface {
	Resource[models.Phone, models.PhoneInput]
	List(ctx context.Context, q services.PhoneQuery) (*services.PhonePage, error)
}

// ResourceHandler serves Get, Create, Update and Delete for one resource.
type ResourceHandler[T any, I any] struct {
	svc Resource[T, I]
}

func (h *ResourceHandler[T, I]) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ResourceHandler[T, I]) Create(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Create(ctx, actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

func (h *ResourceHandler[T, I]) Update(w http.ResponseWriter, r *http.Request) {
	var in I
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	doc, err := h.svc.Update(ctx, actor(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *ResourceHandler[T, I]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	msg, err := h.svc.Delete(ctx, actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg})
}

// CatalogHandler adds the unpaginated list.
type CatalogHandler[T any, I any] struct {
	ResourceHandler[T, I]
	list func(ctx context.Context) ([]T, error)
}

func NewCatalogHandler[T any, I any](svc Catalog[T, I]) *CatalogHandler[T, I] {
	return &CatalogHandler[T, I]{
		ResourceHandler: ResourceHandler[T, I]{svc: svc},
		list:            svc.List,
	}
}

// List responds with a bare array in insertion order.
func (h *CatalogHandler[T, I]) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	docs, err := h.list(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

type PhoneHandler struct {
	ResourceHandler[models.Phone, models.PhoneInput]
	phones PhoneLister
}

func NewPhoneHandler(svc PhoneLister) *PhoneHandler {
	return &PhoneHandler{
		ResourceHandler: ResourceHandler[models.Phone, models.PhoneInput]{svc: svc},
		phones:          svc,
	}
}

// List handles GET /api/celulares?page=&limit=&search=&sortBy=&sortOrder=.
func (h *PhoneHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := services.PhoneQuery{
		Page:      queryInt(q.Get("page")),
		Limit:     queryInt(q.Get("limit")),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := h.phones.List(ctx, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// queryInt parses a query value; anything unparsable is 0 and takes the default.
func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
