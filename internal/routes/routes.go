package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/celustock-backend/internal/handlers"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/services"
)

// Handlers groups every handler the API mounts.
type Handlers struct {
	Auth            *handlers.AuthHandler
	Phones          *handlers.PhoneHandler
	Accessories     *handlers.CatalogHandler[models.Accessory, models.AccessoryInput]
	Plans           *handlers.CatalogHandler[models.Plan, models.PlanInput]
	VivoPhones      *handlers.VivoHandler[models.VivoPhone, models.VivoPhoneInput]
	VivoAccessories *handlers.VivoHandler[models.VivoAccessory, models.VivoAccessoryInput]
	Dashboard       *handlers.DashboardHandler
}

// Services is what NewHandlers wires into the HTTP layer.
type Services struct {
	Auth            *services.AuthService
	Phones          *services.PhoneService
	Accessories     *services.AccessoryService
	Plans           *services.PlanService
	VivoPhones      *services.VivoPhoneService
	VivoAccessories *services.VivoAccessoryService
	Dashboard       *services.DashboardService
}

func NewHandlers(s Services) Handlers {
	return Handlers{
		Auth:            handlers.NewAuthHandler(s.Auth),
		Phones:          handlers.NewPhoneHandler(s.Phones),
		Accessories:     handlers.NewCatalogHandler[models.Accessory, models.AccessoryInput](s.Accessories),
		Plans:           handlers.NewCatalogHandler[models.Plan, models.PlanInput](s.Plans),
		VivoPhones:      handlers.NewVivoHandler[models.VivoPhone, models.VivoPhoneInput](s.VivoPhones),
		VivoAccessories: handlers.NewVivoHandler[models.VivoAccessory, models.VivoAccessoryInput](s.VivoAccessories),
		Dashboard:       handlers.NewDashboardHandler(s.Dashboard),
	}
}

type crudRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// SetupRoutes mounts the API. authLimit guards login/register; auth gates
// everything except those two routes.
func SetupRoutes(r chi.Router, h Handlers, auth, authLimit func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", h.Auth.Register)
			r.Post("/auth/login", h.Auth.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)

			r.Get("/auth/me", h.Auth.Me)

			mountCRUD(r, "/celulares", h.Phones)
			mountCRUD(r, "/acessorios", h.Accessories)
			mountCRUD(r, "/planos", h.Plans)

			r.Get("/dashboard/stats", h.Dashboard.Stats)
			r.Get("/dashboard/old-items", h.Dashboard.OldItems)
			r.Get("/dashboard/activities", h.Dashboard.Activities)

			r.Route("/vivo", func(r chi.Router) {
				mountCRUD(r, "/celulares", h.VivoPhones)
				mountCRUD(r, "/acessorios", h.VivoAccessories)
				r.Get("/stats", h.Dashboard.VivoStats)
				r.Get("/activities", h.Dashboard.VivoActivities)
			})
		})
	})
}

func mountCRUD(r chi.Router, pattern string, h crudRoutes) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
