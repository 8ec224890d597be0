package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
	"github.com/AnshRaj112/celustock-backend/internal/validation"
)

// kind names a resource in client messages and activity entries.
type kind struct {
	name  string // "Celular"
	noun  string // lower-case, for "ID de celular inválido"
	actor string // prefix of activity actions, e.g. "Celular Vivo"
	tipo  models.ActivityType
	dup   string // message on unique index collisions, empty when none
}

func (k kind) invalidID() error {
	return apperr.NotFound("ID de " + k.noun + " inválido")
}

func (k kind) notFound() error {
	return apperr.NotFound(k.name + " não encontrado")
}

// Deleted is the message returned after a successful delete.
func (k kind) deleted() string {
	return k.name + " excluído com sucesso"
}

func (k kind) action(verb string) string {
	return k.actor + " " + verb
}

var (
	phoneKind         = kind{name: "Celular", noun: "celular", actor: "Celular", tipo: models.ActivityPhone}
	accessoryKind     = kind{name: "Acessório", noun: "acessório", actor: "Acessório", tipo: models.ActivityAccessory}
	planKind          = kind{name: "Plano", noun: "plano", actor: "Plano", tipo: models.ActivityPlan, dup: "Já existe um plano com este nome"}
	vivoPhoneKind     = kind{name: "Celular", noun: "celular", actor: "Celular Vivo", tipo: models.ActivityPhone}
	vivoAccessoryKind = kind{name: "Acessório", noun: "acessório", actor: "Acessório Vivo", tipo: models.ActivityAccessory}
)

// entity is a stored document with a display label.
type entity[T any] interface {
	*T
	models.Document
	Label() string
}

// input is a decoded update payload that merges onto T.
type input[T any] interface {
	Apply(*T)
}

// crud holds the load/validate/persist/record steps shared by every resource.
type crud[T any, P entity[T]] struct {
	repo     store.Repository[T]
	activity *ActivityRecorder
	kind     kind
	stats    Cache // nil when the collection feeds no cached stats
}

// UseStatsCache makes every successful write drop the dashboard snapshots
// that count this collection.
func (c *crud[T, P]) UseStatsCache(cache Cache) {
	c.stats = cache
}

// invalidate drops the cached stats the written document contributes to.
// Failures only log; the snapshot then expires with its TTL.
func (c *crud[T, P]) invalidate(ctx context.Context, doc *T) {
	if c.stats == nil {
		return
	}
	keys := []string{dashboardStatsKey}
	if o, ok := any(P(doc)).(interface{ OwnerID() primitive.ObjectID }); ok {
		keys = append(keys, CacheKey(vivoStatsResource, o.OwnerID().Hex()))
	}
	if err := c.stats.Delete(ctx, keys...); err != nil {
		logger.Warn("stats cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func (c *crud[T, P]) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, c.kind.invalidID()
	}
	return oid, nil
}

func (c *crud[T, P]) load(ctx context.Context, id string) (*T, error) {
	oid, err := c.parseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := c.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if doc == nil {
		return nil, c.kind.notFound()
	}
	return doc, nil
}

func (c *crud[T, P]) validate(doc *T) error {
	P(doc).Normalize()
	return validation.Struct(doc)
}

func (c *crud[T, P]) insert(ctx context.Context, doc *T) error {
	if err := c.validate(doc); err != nil {
		return err
	}
	if err := c.repo.Insert(ctx, doc); err != nil {
		return c.writeErr(err)
	}
	c.invalidate(ctx, doc)
	return nil
}

func (c *crud[T, P]) save(ctx context.Context, doc *T) error {
	if err := c.validate(doc); err != nil {
		return err
	}
	if err := c.repo.Save(ctx, doc); err != nil {
		if apperr.IsNoDocuments(err) {
			return c.kind.notFound()
		}
		return c.writeErr(err)
	}
	c.invalidate(ctx, doc)
	return nil
}

func (c *crud[T, P]) remove(ctx context.Context, doc *T) error {
	if err := c.repo.DeleteByID(ctx, P(doc).GetID()); err != nil {
		if apperr.IsNoDocuments(err) {
			return c.kind.notFound()
		}
		return apperr.Internal(err)
	}
	c.invalidate(ctx, doc)
	return nil
}

func (c *crud[T, P]) writeErr(err error) error {
	if c.kind.dup != "" && apperr.IsDuplicateKey(err) {
		return apperr.Duplicate(c.kind.dup, err)
	}
	return apperr.Internal(err)
}

func (c *crud[T, P]) record(ctx context.Context, actor *models.Principal, verb string, doc *T) {
	id := P(doc).GetID()
	c.activity.Record(ctx, Entry{
		Acao:   c.kind.action(verb),
		Item:   P(doc).Label(),
		ItemID: &id,
		Tipo:   c.kind.tipo,
		Actor:  actor,
	})
}

// Resource implements Get, Create, Update and Delete for a main-stock entity.
type Resource[T any, P entity[T], I input[T]] struct {
	crud[T, P]
	newDoc func() *T
}

func (s *Resource[T, P, I]) Get(ctx context.Context, id string) (*T, error) {
	return s.load(ctx, id)
}

func (s *Resource[T, P, I]) Create(ctx context.Context, actor *models.Principal, in I) (*T, error) {
	doc := s.newDoc()
	in.Apply(doc)
	if err := s.insert(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "adicionado", doc)
	return doc, nil
}

// Update merges the present keys of in onto the stored document. Load and
// save are separate round trips; concurrent updates are last-writer-wins.
func (s *Resource[T, P, I]) Update(ctx context.Context, actor *models.Principal, id string, in I) (*T, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Apply(doc)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, actor, "atualizado", doc)
	return doc, nil
}

// Delete removes the document and returns the confirmation message.
func (s *Resource[T, P, I]) Delete(ctx context.Context, actor *models.Principal, id string) (string, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if err := s.remove(ctx, doc); err != nil {
		return "", err
	}
	s.record(ctx, actor, "excluído", doc)
	return s.kind.deleted(), nil
}
