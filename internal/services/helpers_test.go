package services

import (
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/celustock-backend/internal/models"
)

func ptr[T any](v T) *T { return &v }

var fixedNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func principal(nome string) models.Principal {
	return models.Principal{ID: primitive.NewObjectID(), Nome: nome, Email: nome + "@example.com"}
}

// assignID mimics the store: Insert assigns the id.
func assignID[T any, P interface {
	*T
	models.Document
}](id primitive.ObjectID) func(mock.Arguments) {
	return func(args mock.Arguments) {
		P(args.Get(1).(*T)).SetID(id)
	}
}

func activityWith(acao string) interface{} {
	return mock.MatchedBy(func(a *models.Activity) bool { return a.Acao == acao })
}
