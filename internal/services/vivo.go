package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
)

const (
	MsgUnauthorized    = "Não autorizado"
	MsgMissingRequired = "Por favor, preencha todos os campos obrigatórios"
)

// owned is a Vivo document: it has an owner and can be sold.
type owned[T any] interface {
	entity[T]
	OwnerID() primitive.ObjectID
	SetOwner(id primitive.ObjectID)
	IsSold() bool
	SaleInfo(now time.Time) (float64, time.Time)
}

type vivoInput[T any] interface {
	input[T]
	MissingRequired() []string
}

// VivoService is the owner-scoped counterpart of Resource. Every operation
// takes the caller explicitly and only touches the caller's documents.
type VivoService[T any, P owned[T], I vivoInput[T]] struct {
	crud[T, P]
	newDoc func() *T
	now    func() time.Time
}

type (
	VivoPhoneService     = VivoService[models.VivoPhone, *models.VivoPhone, models.VivoPhoneInput]
	VivoAccessoryService = VivoService[models.VivoAccessory, *models.VivoAccessory, models.VivoAccessoryInput]
)

func NewVivoPhoneService(repo store.Repository[models.VivoPhone], activity *ActivityRecorder) *VivoPhoneService {
	return &VivoPhoneService{
		crud:   crud[models.VivoPhone, *models.VivoPhone]{repo: repo, activity: activity, kind: vivoPhoneKind},
		newDoc: models.NewVivoPhone,
		now:    utcNow,
	}
}

func NewVivoAccessoryService(repo store.Repository[models.VivoAccessory], activity *ActivityRecorder) *VivoAccessoryService {
	return &VivoAccessoryService{
		crud:   crud[models.VivoAccessory, *models.VivoAccessory]{repo: repo, activity: activity, kind: vivoAccessoryKind},
		newDoc: models.NewVivoAccessory,
		now:    utcNow,
	}
}

func utcNow() time.Time { return time.Now().UTC() }

// List returns the caller's documents, newest first.
func (s *VivoService[T, P, I]) List(ctx context.Context, owner models.Principal) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	out, err := s.repo.Find(ctx, bson.M{"usuario": owner.ID}, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func (s *VivoService[T, P, I]) Get(ctx context.Context, owner models.Principal, id string) (*T, error) {
	return s.loadOwned(ctx, owner, id)
}

func (s *VivoService[T, P, I]) Create(ctx context.Context, owner models.Principal, in I) (*T, error) {
	if len(in.MissingRequired()) > 0 {
		return nil, apperr.BadRequest(MsgMissingRequired)
	}
	doc := s.newDoc()
	in.Apply(doc)
	P(doc).SetOwner(owner.ID)
	if P(doc).IsSold() {
		P(doc).SaleInfo(s.now())
	}

	if err := s.insert(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, &owner, "adicionado", doc)
	if P(doc).IsSold() {
		s.recordSale(ctx, owner, doc)
	}
	return doc, nil
}

// Update merges in onto the caller's document. A false to true transition
// of vendido stamps dataVenda when absent and records an extra sale entry.
func (s *VivoService[T, P, I]) Update(ctx context.Context, owner models.Principal, id string, in I) (*T, error) {
	doc, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	wasSold := P(doc).IsSold()

	in.Apply(doc)
	P(doc).SetOwner(owner.ID)
	justSold := !wasSold && P(doc).IsSold()
	if justSold {
		P(doc).SaleInfo(s.now())
	}

	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	s.record(ctx, &owner, "atualizado", doc)
	if justSold {
		s.recordSale(ctx, owner, doc)
	}
	return doc, nil
}

func (s *VivoService[T, P, I]) Delete(ctx context.Context, owner models.Principal, id string) (string, error) {
	doc, err := s.loadOwned(ctx, owner, id)
	if err != nil {
		return "", err
	}
	if err := s.remove(ctx, doc); err != nil {
		return "", err
	}
	s.record(ctx, &owner, "excluído", doc)
	return s.kind.deleted(), nil
}

func (s *VivoService[T, P, I]) loadOwned(ctx context.Context, owner models.Principal, id string) (*T, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if P(doc).OwnerID() != owner.ID {
		return nil, apperr.Unauthorized(MsgUnauthorized)
	}
	return doc, nil
}

func (s *VivoService[T, P, I]) recordSale(ctx context.Context, owner models.Principal, doc *T) {
	price, at := P(doc).SaleInfo(s.now())
	id := P(doc).GetID()
	s.activity.Record(ctx, Entry{
		Acao:   s.kind.action("vendido"),
		Item:   saleLabel(P(doc).Label(), price, at),
		ItemID: &id,
		Tipo:   s.kind.tipo,
		Actor:  &owner,
	})
}

// saleLabel renders "Apple iPhone 13 - R$ 3500,00 em 05/02/2026".
func saleLabel(label string, price float64, at time.Time) string {
	amount := strings.Replace(fmt.Sprintf("%.2f", price), ".", ",", 1)
	return fmt.Sprintf("%s - R$ %s em %s", label, amount, at.Format("02/01/2006"))
}
