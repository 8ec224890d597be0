package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/celustock-backend/internal/middleware"
	"github.com/AnshRaj112/celustock-backend/internal/mocks"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/services"
)

type api struct {
	router          http.Handler
	token           string
	user            *models.User
	users           *mocks.Repository[models.User]
	phones          *mocks.Repository[models.Phone]
	accessories     *mocks.Repository[models.Accessory]
	plans           *mocks.Repository[models.Plan]
	vivoPhones      *mocks.Repository[models.VivoPhone]
	vivoAccessories *mocks.Repository[models.VivoAccessory]
	activities      *mocks.Repository[models.Activity]
}

func newAPI(t *testing.T) *api {
	a := &api{
		users:           mocks.NewRepository[models.User](t),
		phones:          mocks.NewRepository[models.Phone](t),
		accessories:     mocks.NewRepository[models.Accessory](t),
		plans:           mocks.NewRepository[models.Plan](t),
		vivoPhones:      mocks.NewRepository[models.VivoPhone](t),
		vivoAccessories: mocks.NewRepository[models.VivoAccessory](t),
		activities:      mocks.NewRepository[models.Activity](t),
	}
	recorder := services.NewActivityRecorder(a.activities)
	auth := services.NewAuthService(a.users, recorder, "routes-test-secret", time.Hour)

	h := NewHandlers(Services{
		Auth:            auth,
		Phones:          services.NewPhoneService(a.phones, recorder),
		Accessories:     services.NewAccessoryService(a.accessories, recorder),
		Plans:           services.NewPlanService(a.plans, recorder),
		VivoPhones:      services.NewVivoPhoneService(a.vivoPhones, recorder),
		VivoAccessories: services.NewVivoAccessoryService(a.vivoAccessories, recorder),
		Dashboard:       services.NewDashboardService(a.phones, a.accessories, a.vivoPhones, a.vivoAccessories, recorder, nil),
	})

	r := chi.NewRouter()
	SetupRoutes(r, h, middleware.Auth(auth), middleware.LoginRateLimit())
	a.router = r

	a.user = &models.User{Base: models.Base{ID: primitive.NewObjectID()}, Nome: "Ana", Email: "ana@example.com"}
	token, err := auth.IssueToken(a.user.ID)
	require.NoError(t, err)
	a.token = token
	return a
}

// signedIn expects the token lookup that the auth middleware performs n times.
func (a *api) signedIn(n int) {
	a.users.On("FindByID", mock.Anything, a.user.ID).Return(a.user, nil).Times(n)
}

func (a *api) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func TestPlans_CreateThenDuplicate(t *testing.T) {
	a := newAPI(t)
	a.signedIn(2)
	id := primitive.NewObjectID()

	a.plans.On("Insert", mock.Anything, mock.MatchedBy(func(p *models.Plan) bool {
		return p.Nome == "Controle 50GB" && *p.Valor == 79.90
	})).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Plan)
		p.ID = id
		p.Touch(time.Now().UTC())
	}).Return(nil).Once()
	a.activities.On("Insert", mock.Anything, mock.MatchedBy(func(act *models.Activity) bool {
		return act.Acao == "Plano adicionado" && act.Item == "Controle 50GB" && act.UsuarioNome == "Ana"
	})).Return(nil).Once()

	rec := a.do(http.MethodPost, "/api/planos", `{"nome":"Controle 50GB","valor":79.90}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID    string  `json:"_id"`
		Nome  string  `json:"nome"`
		Valor float64 `json:"valor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, id.Hex(), created.ID)
	assert.Equal(t, "Controle 50GB", created.Nome)
	assert.Equal(t, 79.90, created.Valor)

	a.plans.On("Insert", mock.Anything, mock.Anything).
		Return(mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}).Once()

	rec = a.do(http.MethodPost, "/api/planos", `{"nome":"Controle 50GB","valor":79.90}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Já existe um plano com este nome"}`, rec.Body.String())
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)
	a.token = ""

	for _, path := range []string{"/api/celulares", "/api/planos", "/api/dashboard/stats", "/api/vivo/celulares", "/api/auth/me"} {
		rec := a.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"success":false,"message":"Não autorizado, token ausente"}`, rec.Body.String(), path)
	}
}

func TestInvalidBody(t *testing.T) {
	a := newAPI(t)
	a.signedIn(1)

	rec := a.do(http.MethodPost, "/api/acessorios", `{"marca":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Corpo da requisição inválido"}`, rec.Body.String())
}

func TestValidationErrorShape(t *testing.T) {
	a := newAPI(t)
	a.signedIn(1)

	rec := a.do(http.MethodPost, "/api/celulares", `{"marca":"Samsung"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Success bool     `json:"success"`
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.ElementsMatch(t, []string{"Modelo é obrigatório", "IMEI é obrigatório", "Valor de compra é obrigatório"}, body.Errors)
}

func TestGetUnknownID(t *testing.T) {
	a := newAPI(t)
	a.signedIn(2)
	missing := primitive.NewObjectID()
	a.phones.On("FindByID", mock.Anything, missing).Return(nil, nil).Once()

	rec := a.do(http.MethodGet, "/api/celulares/"+missing.Hex(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Celular não encontrado"}`, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/celulares/123", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"ID de celular inválido"}`, rec.Body.String())
}

func TestPhoneListQuery(t *testing.T) {
	a := newAPI(t)
	a.signedIn(1)

	a.phones.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil).Once()
	a.phones.On("Find", mock.Anything, mock.Anything, mock.Anything).Return([]models.Phone{}, nil).Once()

	rec := a.do(http.MethodGet, "/api/celulares?page=abc&limit=500&sortBy=marca&sortOrder=asc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"celulares":[],"currentPage":1,"totalPages":0,"totalCelulares":0}`, rec.Body.String())
}

func TestVivoListIsOwnerScoped(t *testing.T) {
	a := newAPI(t)
	a.signedIn(1)

	a.vivoAccessories.On("Find", mock.Anything, bson.M{"usuario": a.user.ID}, mock.Anything).
		Return([]models.VivoAccessory{}, nil).Once()

	rec := a.do(http.MethodGet, "/api/vivo/acessorios", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestMe(t *testing.T) {
	a := newAPI(t)
	a.signedIn(2)

	rec := a.do(http.MethodGet, "/api/auth/me", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "Ana", me["nome"])
	assert.Equal(t, a.user.ID.Hex(), me["_id"])
	assert.NotContains(t, me, "senha")
}
