package services

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/mocks"
	"github.com/AnshRaj112/celustock-backend/internal/models"
)

type dashboardFixtures struct {
	phones          *mocks.Repository[models.Phone]
	accessories     *mocks.Repository[models.Accessory]
	vivoPhones      *mocks.Repository[models.VivoPhone]
	vivoAccessories *mocks.Repository[models.VivoAccessory]
	activities      *mocks.Repository[models.Activity]
	svc             *DashboardService
}

func newDashboardFixtures(t *testing.T, cache Cache) dashboardFixtures {
	f := dashboardFixtures{
		phones:          mocks.NewRepository[models.Phone](t),
		accessories:     mocks.NewRepository[models.Accessory](t),
		vivoPhones:      mocks.NewRepository[models.VivoPhone](t),
		vivoAccessories: mocks.NewRepository[models.VivoAccessory](t),
		activities:      mocks.NewRepository[models.Activity](t),
	}
	f.svc = NewDashboardService(f.phones, f.accessories, f.vivoPhones, f.vivoAccessories, NewActivityRecorder(f.activities), cache)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

// memoryCache is an in-process Cache that stores values unencoded.
type memoryCache struct {
	data   map[string]interface{}
	getErr error
	delErr error
	sets   int
}

func newMemoryCache() *memoryCache { return &memoryCache{data: map[string]interface{}{}} }

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *Stats:
		*d = *v.(*Stats)
	case *VivoStats:
		*d = *v.(*VivoStats)
	}
	return true, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	if c.delErr != nil {
		return c.delErr
	}
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func fill[T any](rows []T) func(out interface{}) {
	return func(out interface{}) {
		*out.(*[]T) = rows
	}
}

func pipelineLen(n int) interface{} {
	return mock.MatchedBy(func(p mongo.Pipeline) bool { return len(p) == n })
}

func TestDashboardService_Stats(t *testing.T) {
	f := newDashboardFixtures(t, nil)

	f.phones.On("Count", mock.Anything, bson.M{}).Return(int64(12), nil).Once()
	f.accessories.On("Count", mock.Anything, bson.M{}).Return(int64(30), nil).Once()
	f.vivoPhones.On("Count", mock.Anything, bson.M{}).Return(int64(4), nil).Once()
	f.vivoAccessories.On("Count", mock.Anything, bson.M{}).Return(int64(7), nil).Once()

	got, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Stats{
		TotalCelulares:      12,
		TotalAcessorios:     30,
		TotalVivoCelulares:  4,
		TotalVivoAcessorios: 7,
		TotalItens:          53,
	}, got)
}

func TestDashboardService_StatsFailure(t *testing.T) {
	f := newDashboardFixtures(t, nil)

	f.phones.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("timeout")).Maybe()
	f.accessories.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()
	f.vivoPhones.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()
	f.vivoAccessories.On("Count", mock.Anything, mock.Anything).Return(int64(1), nil).Maybe()

	_, err := f.svc.Stats(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.MsgInternal, err.Error())
}

func TestDashboardService_StatsUsesCache(t *testing.T) {
	cache := newMemoryCache()
	f := newDashboardFixtures(t, cache)

	for _, repo := range []interface{ On(string, ...interface{}) *mock.Call }{f.phones, f.accessories, f.vivoPhones, f.vivoAccessories} {
		repo.On("Count", mock.Anything, bson.M{}).Return(int64(1), nil).Once()
	}

	first, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	second, err := f.svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Contains(t, cache.data, "dashboard:stats")
}

func TestDashboardService_StatsRecomputedAfterWrite(t *testing.T) {
	cache := newMemoryCache()
	f := newDashboardFixtures(t, cache)
	phoneSvc := NewPhoneService(f.phones, NewActivityRecorder(f.activities))
	phoneSvc.UseStatsCache(cache)

	f.phones.On("Count", mock.Anything, bson.M{}).Return(int64(1), nil).Once()
	for _, repo := range []interface{ On(string, ...interface{}) *mock.Call }{f.accessories, f.vivoPhones, f.vivoAccessories} {
		repo.On("Count", mock.Anything, bson.M{}).Return(int64(0), nil).Twice()
	}

	before, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), before.TotalCelulares)

	f.phones.On("Insert", mock.Anything, mock.Anything).Run(assignID[models.Phone](primitive.NewObjectID())).Return(nil).Once()
	f.activities.On("Insert", mock.Anything, activityWith("Celular adicionado")).Return(nil).Once()
	in := models.PhoneInput{Marca: models.Some("LG"), Modelo: models.Some("K62"), IMEI: models.Some("3"), ValorCompra: models.Some(700.0)}
	_, err = phoneSvc.Create(context.Background(), nil, in)
	require.NoError(t, err)
	assert.NotContains(t, cache.data, "dashboard:stats")

	f.phones.On("Count", mock.Anything, bson.M{}).Return(int64(2), nil).Once()
	after, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), after.TotalCelulares)
	assert.Equal(t, int64(2), after.TotalItens)
	assert.Equal(t, 2, cache.sets)
}

func TestVivoWriteInvalidatesOwnerStats(t *testing.T) {
	cache := newMemoryCache()
	ana, bia := principal("Ana"), principal("Bia")
	anaKey := CacheKey(vivoStatsResource, ana.ID.Hex())
	biaKey := CacheKey(vivoStatsResource, bia.ID.Hex())
	cache.data[dashboardStatsKey] = &Stats{}
	cache.data[anaKey] = &VivoStats{}
	cache.data[biaKey] = &VivoStats{}

	repo := mocks.NewRepository[models.VivoAccessory](t)
	activities := mocks.NewRepository[models.Activity](t)
	svc := NewVivoAccessoryService(repo, NewActivityRecorder(activities))
	svc.UseStatsCache(cache)

	id := primitive.NewObjectID()
	stored := &models.VivoAccessory{}
	stored.ID = id
	stored.Marca, stored.Modelo = "Baseus", "Capa"
	stored.ValorCompra = ptr(30.0)
	stored.Usuario = ana.ID
	repo.On("FindByID", mock.Anything, id).Return(stored, nil).Once()
	repo.On("DeleteByID", mock.Anything, id).Return(nil).Once()
	activities.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Delete(context.Background(), ana, id.Hex())
	require.NoError(t, err)
	assert.NotContains(t, cache.data, dashboardStatsKey)
	assert.NotContains(t, cache.data, anaKey)
	assert.Contains(t, cache.data, biaKey, "other owners keep their snapshot")
}

func TestInvalidationFailureDoesNotFailWrite(t *testing.T) {
	cache := newMemoryCache()
	cache.delErr = errors.New("redis down")
	phones := mocks.NewRepository[models.Phone](t)
	activities := mocks.NewRepository[models.Activity](t)
	svc := NewPhoneService(phones, NewActivityRecorder(activities))
	svc.UseStatsCache(cache)

	id := primitive.NewObjectID()
	phones.On("FindByID", mock.Anything, id).Return(&models.Phone{Base: models.Base{ID: id}, Marca: "LG"}, nil).Once()
	phones.On("DeleteByID", mock.Anything, id).Return(nil).Once()
	activities.On("Insert", mock.Anything, mock.Anything).Return(nil).Once()

	msg, err := svc.Delete(context.Background(), nil, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Celular excluído com sucesso", msg)
}

func TestDashboardService_StatsCacheErrorFallsBack(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	f := newDashboardFixtures(t, cache)

	for _, repo := range []interface{ On(string, ...interface{}) *mock.Call }{f.phones, f.accessories, f.vivoPhones, f.vivoAccessories} {
		repo.On("Count", mock.Anything, bson.M{}).Return(int64(2), nil).Once()
	}

	got, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.TotalItens)
}

func TestDashboardService_VivoStats(t *testing.T) {
	cache := newMemoryCache()
	f := newDashboardFixtures(t, cache)
	ana := principal("Ana")
	mine := bson.M{"usuario": ana.ID}

	f.vivoPhones.On("Count", mock.Anything, mine).Return(int64(3), nil).Once()
	f.vivoAccessories.On("Count", mock.Anything, mine).Return(int64(2), nil).Once()
	f.vivoPhones.On("Aggregate", mock.Anything, pipelineLen(2), mock.Anything).Return(fillTotal(9600), nil).Once()
	f.vivoAccessories.On("Aggregate", mock.Anything, pipelineLen(2), mock.Anything).Return(fillTotal(150.5), nil).Once()
	f.vivoPhones.On("Aggregate", mock.Anything, pipelineLen(4), mock.Anything).
		Return(fill([]BrandCount{{Marca: "Samsung", Quantidade: 2}, {Marca: "Apple", Quantidade: 1}}), nil).Once()

	got, err := f.svc.VivoStats(context.Background(), ana)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalCelulares)
	assert.Equal(t, int64(2), got.TotalAcessorios)
	assert.Equal(t, int64(5), got.TotalItens)
	assert.Equal(t, 9600.0, got.ValorTotalCelulares)
	assert.Equal(t, 150.5, got.ValorTotalAcessorios)
	assert.Equal(t, []BrandCount{{"Samsung", 2}, {"Apple", 1}}, got.TopMarcas)
	assert.Contains(t, cache.data, "vivo:stats:"+ana.ID.Hex())
}

// fillTotal appends a {total: v} row to the unnamed row slice the sum
// pipeline decodes into.
func fillTotal(v float64) func(out interface{}) {
	return func(out interface{}) {
		rows := reflect.ValueOf(out).Elem()
		row := reflect.New(rows.Type().Elem()).Elem()
		row.FieldByName("Total").SetFloat(v)
		rows.Set(reflect.Append(rows, row))
	}
}

func TestDashboardService_OldItems(t *testing.T) {
	f := newDashboardFixtures(t, nil)
	old := fixedNow.AddDate(0, 0, -200)
	row := OldItem{ID: primitive.NewObjectID(), Marca: "LG", Modelo: "K10", DataCompra: old, ValorCompra: ptr(500.0)}

	cutoffIs := func(want time.Time) interface{} {
		return mock.MatchedBy(func(p mongo.Pipeline) bool {
			match := p[0][0].Value.(bson.M)["dataCompra"].(bson.M)
			return match["$lte"].(time.Time).Equal(want)
		})
	}
	cutoff := fixedNow.AddDate(0, 0, -180)

	f.phones.On("Aggregate", mock.Anything, cutoffIs(cutoff), mock.Anything).Return(fill([]OldItem{row}), nil).Once()
	f.accessories.On("Aggregate", mock.Anything, cutoffIs(cutoff), mock.Anything).Return(nil, nil).Once()
	f.vivoPhones.On("Aggregate", mock.Anything, cutoffIs(cutoff), mock.Anything).Return(nil, nil).Once()
	f.vivoAccessories.On("Aggregate", mock.Anything, cutoffIs(cutoff), mock.Anything).Return(nil, nil).Once()

	got, err := f.svc.OldItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 180, got.LimiteDias)
	assert.Equal(t, []OldItem{row}, got.Celulares)
	assert.NotNil(t, got.Acessorios)
	assert.Empty(t, got.VivoAcessorios)
}

func TestOldItemsPipeline_Threshold(t *testing.T) {
	now := fixedNow
	cutoff := now.AddDate(0, 0, -OldItemThresholdDays)

	p := OldItemsPipeline(cutoff, "valorProduto", "tipo")
	lte := p[0][0].Value.(bson.M)["dataCompra"].(bson.M)["$lte"].(time.Time)

	bought181 := now.AddDate(0, 0, -181)
	bought179 := now.AddDate(0, 0, -179)
	assert.False(t, bought181.After(lte), "181 days old is listed")
	assert.True(t, bought179.After(lte), "179 days old is not listed")

	project := p[1][0].Value.(bson.M)
	assert.Equal(t, bson.M{"_id": 1, "marca": 1, "modelo": 1, "dataCompra": 1, "valorProduto": 1, "tipo": 1}, project)
}

func TestTopBrandsPipeline(t *testing.T) {
	owner := primitive.NewObjectID()
	p := TopBrandsPipeline(bson.M{"usuario": owner}, 5)

	require.Len(t, p, 4)
	assert.Equal(t, "$group", p[1][0].Key)
	assert.Equal(t, bson.M{"_id": "$marca", "quantidade": bson.M{"$sum": 1}}, p[1][0].Value)
	assert.Equal(t, bson.D{{Key: "$limit", Value: 5}}, p[3])
}

func TestDashboardService_Activities(t *testing.T) {
	f := newDashboardFixtures(t, nil)
	ana := principal("Ana")
	feed := []models.Activity{{Acao: "Plano adicionado"}}

	f.activities.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(feed, nil).Once()
	got, err := f.svc.Activities(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, feed, got)

	f.activities.On("Find", mock.Anything, bson.M{"usuario": ana.ID}, mock.Anything).Return([]models.Activity{}, nil).Once()
	mineOnly, err := f.svc.VivoActivities(context.Background(), ana, 0)
	require.NoError(t, err)
	assert.Empty(t, mineOnly)
}

func TestClampActivityLimit(t *testing.T) {
	assert.Equal(t, 10, ClampActivityLimit(0))
	assert.Equal(t, 10, ClampActivityLimit(-5))
	assert.Equal(t, 25, ClampActivityLimit(25))
	assert.Equal(t, 50, ClampActivityLimit(51))
}
