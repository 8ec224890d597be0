// Package store is a thin typed repository over a single Mongo collection.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/celustock-backend/internal/models"
)

// Repository is the collection surface the services depend on.
type Repository[T any] interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Count(ctx context.Context, filter interface{}) (int64, error)
	Insert(ctx context.Context, doc *T) error
	Save(ctx context.Context, doc *T) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error
}

// Doc constrains P to *T implementing models.Document.
type Doc[T any] interface {
	*T
	models.Document
}

type Collection[T any, P Doc[T]] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New wraps coll; the pointer type parameter is inferred, e.g.
// store.New[models.Phone](db.Collection("celulares")).
func New[T any, P Doc[T]](coll *mongo.Collection) *Collection[T, P] {
	return &Collection[T, P]{coll: coll, now: func() time.Time { return time.Now().UTC() }}
}

// Name is the underlying collection name.
func (c *Collection[T, P]) Name() string {
	return c.coll.Name()
}

func (c *Collection[T, P]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "find %s", c.coll.Name())
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, errors.Wrapf(err, "decode %s", c.coll.Name())
	}
	return out, nil
}

// FindOne returns nil, nil when nothing matches.
func (c *Collection[T, P]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var out T
	err := c.coll.FindOne(ctx, filter, opts...).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find one %s", c.coll.Name())
	}
	return &out, nil
}

func (c *Collection[T, P]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	return c.FindOne(ctx, bson.M{"_id": id})
}

func (c *Collection[T, P]) Count(ctx context.Context, filter interface{}) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errors.Wrapf(err, "count %s", c.coll.Name())
	}
	return n, nil
}

// Insert assigns the id and timestamps, then inserts.
func (c *Collection[T, P]) Insert(ctx context.Context, doc *T) error {
	d := P(doc)
	if d.GetID().IsZero() {
		d.SetID(primitive.NewObjectID())
	}
	d.Touch(c.now())

	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return errors.Wrapf(err, "insert %s", c.coll.Name())
	}
	return nil
}

// Save replaces the stored document with doc, refreshing updatedAt. It is a
// plain overwrite: concurrent saves of the same document are last-writer-wins.
func (c *Collection[T, P]) Save(ctx context.Context, doc *T) error {
	d := P(doc)
	d.Touch(c.now())

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": d.GetID()}, doc)
	if err != nil {
		return errors.Wrapf(err, "save %s", c.coll.Name())
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "save %s", c.coll.Name())
	}
	return nil
}

func (c *Collection[T, P]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "delete %s", c.coll.Name())
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(mongo.ErrNoDocuments, "delete %s", c.coll.Name())
	}
	return nil
}

// Aggregate runs pipeline and decodes every result into out (a pointer to a slice).
func (c *Collection[T, P]) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	cursor, err := c.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return errors.Wrapf(err, "aggregate %s", c.coll.Name())
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return errors.Wrapf(err, "decode aggregate %s", c.coll.Name())
	}
	return nil
}
