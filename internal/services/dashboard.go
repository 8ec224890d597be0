package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
)

const (
	OldItemThresholdDays = 180
	TopBrandsLimit       = 5

	dashboardStatsKey = "dashboard:stats"
	vivoStatsResource = "vivo:stats"
)

type Stats struct {
	TotalCelulares      int64 `json:"totalCelulares"`
	TotalAcessorios     int64 `json:"totalAcessorios"`
	TotalVivoCelulares  int64 `json:"totalVivoCelulares"`
	TotalVivoAcessorios int64 `json:"totalVivoAcessorios"`
	TotalItens          int64 `json:"totalItens"`
}

type BrandCount struct {
	Marca      string `bson:"_id" json:"marca"`
	Quantidade int64  `bson:"quantidade" json:"quantidade"`
}

type VivoStats struct {
	TotalCelulares       int64        `json:"totalCelulares"`
	TotalAcessorios      int64        `json:"totalAcessorios"`
	TotalItens           int64        `json:"totalItens"`
	ValorTotalCelulares  float64      `json:"valorTotalCelulares"`
	ValorTotalAcessorios float64      `json:"valorTotalAcessorios"`
	TopMarcas            []BrandCount `json:"topMarcas"`
}

// OldItem is the projection returned for stock bought long ago.
type OldItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Marca        string             `bson:"marca,omitempty" json:"marca,omitempty"`
	Modelo       string             `bson:"modelo,omitempty" json:"modelo,omitempty"`
	DataCompra   time.Time          `bson:"dataCompra" json:"dataCompra"`
	ValorCompra  *float64           `bson:"valorCompra,omitempty" json:"valorCompra,omitempty"`
	ValorProduto *float64           `bson:"valorProduto,omitempty" json:"valorProduto,omitempty"`
	Tipo         string             `bson:"tipo,omitempty" json:"tipo,omitempty"`
	Categoria    string             `bson:"categoria,omitempty" json:"categoria,omitempty"`
}

type OldItems struct {
	Celulares      []OldItem `json:"celulares"`
	Acessorios     []OldItem `json:"acessorios"`
	VivoCelulares  []OldItem `json:"vivoCelulares"`
	VivoAcessorios []OldItem `json:"vivoAcessorios"`
	LimiteDias     int       `json:"limiteDias"`
}

// DashboardService aggregates across the four stock collections.
type DashboardService struct {
	phones          store.Repository[models.Phone]
	accessories     store.Repository[models.Accessory]
	vivoPhones      store.Repository[models.VivoPhone]
	vivoAccessories store.Repository[models.VivoAccessory]
	activity        *ActivityRecorder
	cache           Cache // nil disables caching
	now             func() time.Time
}

func NewDashboardService(
	phones store.Repository[models.Phone],
	accessories store.Repository[models.Accessory],
	vivoPhones store.Repository[models.VivoPhone],
	vivoAccessories store.Repository[models.VivoAccessory],
	activity *ActivityRecorder,
	cache Cache,
) *DashboardService {
	return &DashboardService{
		phones:          phones,
		accessories:     accessories,
		vivoPhones:      vivoPhones,
		vivoAccessories: vivoAccessories,
		activity:        activity,
		cache:           cache,
		now:             utcNow,
	}
}

// Stats counts every collection concurrently.
func (d *DashboardService) Stats(ctx context.Context) (*Stats, error) {
	return cached(ctx, d.cache, dashboardStatsKey, func(ctx context.Context) (*Stats, error) {
		var s Stats
		g, gctx := errgroup.WithContext(ctx)
		g.Go(count(gctx, d.phones, bson.M{}, &s.TotalCelulares))
		g.Go(count(gctx, d.accessories, bson.M{}, &s.TotalAcessorios))
		g.Go(count(gctx, d.vivoPhones, bson.M{}, &s.TotalVivoCelulares))
		g.Go(count(gctx, d.vivoAccessories, bson.M{}, &s.TotalVivoAcessorios))
		if err := g.Wait(); err != nil {
			return nil, apperr.Internal(err)
		}
		s.TotalItens = s.TotalCelulares + s.TotalAcessorios + s.TotalVivoCelulares + s.TotalVivoAcessorios
		return &s, nil
	})
}

// VivoStats summarises the caller's Vivo stock.
func (d *DashboardService) VivoStats(ctx context.Context, owner models.Principal) (*VivoStats, error) {
	key := CacheKey(vivoStatsResource, owner.ID.Hex())
	return cached(ctx, d.cache, key, func(ctx context.Context) (*VivoStats, error) {
		mine := bson.M{"usuario": owner.ID}
		s := VivoStats{TopMarcas: []BrandCount{}}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(count(gctx, d.vivoPhones, mine, &s.TotalCelulares))
		g.Go(count(gctx, d.vivoAccessories, mine, &s.TotalAcessorios))
		g.Go(sumValorCompra(gctx, d.vivoPhones, mine, &s.ValorTotalCelulares))
		g.Go(sumValorCompra(gctx, d.vivoAccessories, mine, &s.ValorTotalAcessorios))
		g.Go(func() error {
			return d.vivoPhones.Aggregate(gctx, TopBrandsPipeline(mine, TopBrandsLimit), &s.TopMarcas)
		})
		if err := g.Wait(); err != nil {
			return nil, apperr.Internal(err)
		}
		s.TotalItens = s.TotalCelulares + s.TotalAcessorios
		return &s, nil
	})
}

// OldItems lists stock whose dataCompra is at least 180 days old.
func (d *DashboardService) OldItems(ctx context.Context) (*OldItems, error) {
	cutoff := d.now().AddDate(0, 0, -OldItemThresholdDays)
	out := OldItems{LimiteDias: OldItemThresholdDays}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(oldItems(gctx, d.phones, cutoff, "valorCompra", &out.Celulares))
	g.Go(oldItems(gctx, d.accessories, cutoff, "valorProduto", &out.Acessorios, "tipo"))
	g.Go(oldItems(gctx, d.vivoPhones, cutoff, "valorCompra", &out.VivoCelulares))
	g.Go(oldItems(gctx, d.vivoAccessories, cutoff, "valorCompra", &out.VivoAcessorios, "categoria"))
	if err := g.Wait(); err != nil {
		return nil, apperr.Internal(err)
	}
	return &out, nil
}

// Activities returns the global feed.
func (d *DashboardService) Activities(ctx context.Context, limit int) ([]models.Activity, error) {
	out, err := d.activity.Recent(ctx, nil, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// VivoActivities returns the caller's own feed.
func (d *DashboardService) VivoActivities(ctx context.Context, owner models.Principal, limit int) ([]models.Activity, error) {
	id := owner.ID
	out, err := d.activity.Recent(ctx, &id, limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// OldItemsPipeline matches dataCompra <= cutoff and keeps the listed fields.
func OldItemsPipeline(cutoff time.Time, fields ...string) mongo.Pipeline {
	project := bson.M{"_id": 1, "marca": 1, "modelo": 1, "dataCompra": 1}
	for _, f := range fields {
		project[f] = 1
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"dataCompra": bson.M{"$lte": cutoff}}}},
		{{Key: "$project", Value: project}},
		{{Key: "$sort", Value: bson.D{{Key: "dataCompra", Value: 1}, {Key: "_id", Value: 1}}}},
	}
}

// TopBrandsPipeline counts documents per marca, most frequent first.
func TopBrandsPipeline(match bson.M, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": "$marca", "quantidade": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "quantidade", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func sumPipeline(match bson.M, field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$" + field}}}},
	}
}

type counter interface {
	Count(ctx context.Context, filter interface{}) (int64, error)
}

type aggregator interface {
	Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error
}

func count(ctx context.Context, repo counter, filter bson.M, dst *int64) func() error {
	return func() error {
		n, err := repo.Count(ctx, filter)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func sumValorCompra(ctx context.Context, repo aggregator, match bson.M, dst *float64) func() error {
	return func() error {
		var rows []struct {
			Total float64 `bson:"total"`
		}
		if err := repo.Aggregate(ctx, sumPipeline(match, "valorCompra"), &rows); err != nil {
			return err
		}
		if len(rows) > 0 {
			*dst = rows[0].Total
		}
		return nil
	}
}

func oldItems(ctx context.Context, repo aggregator, cutoff time.Time, valueField string, dst *[]OldItem, extra ...string) func() error {
	return func() error {
		rows := []OldItem{}
		if err := repo.Aggregate(ctx, OldItemsPipeline(cutoff, append([]string{valueField}, extra...)...), &rows); err != nil {
			return err
		}
		*dst = rows
		return nil
	}
}

// cached serves key from cache when possible. Cache failures only log; the
// value is then computed directly.
func cached[V any](ctx context.Context, c Cache, key string, compute func(context.Context) (*V, error)) (*V, error) {
	if c != nil {
		var v V
		hit, err := c.Get(ctx, key, &v)
		if err != nil {
			logger.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &v, nil
		}
	}

	v, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if c != nil {
		if err := c.Set(ctx, key, v, StatsCacheTTL); err != nil {
			logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}
