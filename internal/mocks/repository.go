// Package mocks holds testify mocks in the shape mockery generates.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository is a mock for store.Repository[T].
type Repository[T any] struct {
	mock.Mock
}

// NewRepository creates a mock and asserts its expectations on cleanup.
func NewRepository[T any](t interface {
	mock.TestingT
	Cleanup(func())
}) *Repository[T] {
	m := &Repository[T]{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Repository[T]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	args := m.Called(ctx, filter, opts)
	var out []T
	if v := args.Get(0); v != nil {
		out = v.([]T)
	}
	return out, args.Error(1)
}

func (m *Repository[T]) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	args := m.Called(ctx, filter, opts)
	var out *T
	if v := args.Get(0); v != nil {
		out = v.(*T)
	}
	return out, args.Error(1)
}

func (m *Repository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	args := m.Called(ctx, id)
	var out *T
	if v := args.Get(0); v != nil {
		out = v.(*T)
	}
	return out, args.Error(1)
}

func (m *Repository[T]) Count(ctx context.Context, filter interface{}) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Repository[T]) Insert(ctx context.Context, doc *T) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Repository[T]) Save(ctx context.Context, doc *T) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *Repository[T]) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Aggregate runs the optional func(out interface{}) in Return's first slot to
// fill the destination, mimicking a cursor decode.
func (m *Repository[T]) Aggregate(ctx context.Context, pipeline interface{}, out interface{}) error {
	args := m.Called(ctx, pipeline, out)
	if fill, ok := args.Get(0).(func(out interface{})); ok {
		fill(out)
	}
	return args.Error(1)
}
