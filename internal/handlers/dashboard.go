package handlers

import (
	"context"
	"net/http"

	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/services"
)

type Dashboard interface {
	Stats(ctx context.Context) (*services.Stats, error)
	VivoStats(ctx context.Context, owner models.Principal) (*services.VivoStats, error)
	OldItems(ctx context.Context) (*services.OldItems, error)
	Activities(ctx context.Context, limit int) ([]models.Activity, error)
	VivoActivities(ctx context.Context, owner models.Principal, limit int) ([]models.Activity, error)
}

type DashboardHandler struct {
	svc Dashboard
}

func NewDashboardHandler(svc Dashboard) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats handles GET /api/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// OldItems handles GET /api/dashboard/old-items
func (h *DashboardHandler) OldItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	items, err := h.svc.OldItems(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Activities handles GET /api/dashboard/activities?limit=N
func (h *DashboardHandler) Activities(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	feed, err := h.svc.Activities(ctx, queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// VivoStats handles GET /api/vivo/stats
func (h *DashboardHandler) VivoStats(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	stats, err := h.svc.VivoStats(ctx, p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// VivoActivities handles GET /api/vivo/activities
func (h *DashboardHandler) VivoActivities(w http.ResponseWriter, r *http.Request) {
	p, err := owner(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	feed, err := h.svc.VivoActivities(ctx, p, queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}
