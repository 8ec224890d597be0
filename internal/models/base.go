package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is implemented by every stored entity through the embedded Base.
type Document interface {
	GetID() primitive.ObjectID
	SetID(id primitive.ObjectID)
	Touch(now time.Time)
	Normalize()
}

// Base carries the server-assigned identity and timestamps.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Base) GetID() primitive.ObjectID { return b.ID }

func (b *Base) SetID(id primitive.ObjectID) { b.ID = id }

// Touch stamps UpdatedAt, and CreatedAt on the first write.
func (b *Base) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// Principal is the authenticated caller, passed explicitly into services.
type Principal struct {
	ID    primitive.ObjectID
	Nome  string
	Email string
}

// Cliente is the customer embedded in sold Vivo items.
type Cliente struct {
	Nome     string `bson:"nome,omitempty" json:"nome,omitempty"`
	Telefone string `bson:"telefone,omitempty" json:"telefone,omitempty"`
	Email    string `bson:"email,omitempty" json:"email,omitempty" validate:"omitempty,email" label:"Email do cliente"`
}

func (c *Cliente) normalize() {
	if c == nil {
		return
	}
	c.Nome = strings.TrimSpace(c.Nome)
	c.Telefone = strings.TrimSpace(c.Telefone)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
}

func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// brandModel is the display label shared by phones and accessories.
func brandModel(marca, modelo, nome, fallback string) string {
	if label := strings.TrimSpace(strings.TrimSpace(marca) + " " + strings.TrimSpace(modelo)); label != "" {
		return label
	}
	if nome = strings.TrimSpace(nome); nome != "" {
		return nome
	}
	return fallback
}
