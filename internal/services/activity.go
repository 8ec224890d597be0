package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
)

const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 50
)

// Entry describes one mutating action to record.
type Entry struct {
	Acao   string
	Item   string
	ItemID *primitive.ObjectID
	Tipo   models.ActivityType
	Actor  *models.Principal
}

// ActivityRecorder writes the audit feed. Writes are best-effort.
type ActivityRecorder struct {
	repo store.Repository[models.Activity]
}

func NewActivityRecorder(repo store.Repository[models.Activity]) *ActivityRecorder {
	return &ActivityRecorder{repo: repo}
}

// Record inserts one activity and returns it, or nil when the write failed.
// Failures are logged and never returned.
func (r *ActivityRecorder) Record(ctx context.Context, e Entry) *models.Activity {
	a := &models.Activity{
		Acao:   e.Acao,
		Item:   e.Item,
		ItemID: e.ItemID,
		Tipo:   e.Tipo,
	}
	if e.Actor != nil && !e.Actor.ID.IsZero() {
		id := e.Actor.ID
		a.Usuario = &id
		a.UsuarioNome = e.Actor.Nome
	}
	a.Normalize()

	if err := r.repo.Insert(ctx, a); err != nil {
		logger.Warn("failed to record activity",
			zap.String("acao", a.Acao),
			zap.String("item", a.Item),
			zap.Error(err),
		)
		return nil
	}
	return a
}

// Recent lists the newest activities, optionally restricted to one user.
func (r *ActivityRecorder) Recent(ctx context.Context, userID *primitive.ObjectID, limit int) ([]models.Activity, error) {
	filter := bson.M{}
	if userID != nil {
		filter["usuario"] = *userID
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(ClampActivityLimit(limit)))

	return r.repo.Find(ctx, filter, opts)
}

// ClampActivityLimit applies the default of 10 and the ceiling of 50.
func ClampActivityLimit(limit int) int {
	if limit < 1 {
		return DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		return MaxActivityLimit
	}
	return limit
}
