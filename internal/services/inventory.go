package services

import (
	"context"
	"math"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var phoneSearchFields = []string{"marca", "modelo", "imei", "cor", "armazenamento", "nome"}

var phoneSortFields = map[string]bool{
	"marca":         true,
	"modelo":        true,
	"imei":          true,
	"armazenamento": true,
	"ram":           true,
	"cor":           true,
	"valorCompra":   true,
	"dataCompra":    true,
	"createdAt":     true,
	"updatedAt":     true,
}

// PhoneQuery carries the raw list parameters; zero values take the defaults.
type PhoneQuery struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
}

type PhonePage struct {
	Celulares      []models.Phone `json:"celulares"`
	CurrentPage    int            `json:"currentPage"`
	TotalPages     int            `json:"totalPages"`
	TotalCelulares int64          `json:"totalCelulares"`
}

type PhoneService struct {
	Resource[models.Phone, *models.Phone, models.PhoneInput]
}

func NewPhoneService(repo store.Repository[models.Phone], activity *ActivityRecorder) *PhoneService {
	return &PhoneService{Resource[models.Phone, *models.Phone, models.PhoneInput]{
		crud:   crud[models.Phone, *models.Phone]{repo: repo, activity: activity, kind: phoneKind},
		newDoc: func() *models.Phone { return &models.Phone{} },
	}}
}

// List returns one page of phones matching the search, ordered by the
// requested field with _id as tie-breaker.
func (s *PhoneService) List(ctx context.Context, q PhoneQuery) (*PhonePage, error) {
	page, limit := NormalizePaging(q.Page, q.Limit)
	filter := SearchFilter(q.Search, phoneSearchFields...)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	opts := options.Find().
		SetSort(ResolveSort(q.SortBy, q.SortOrder)).
		SetSkip(PageSkip(page, limit)).
		SetLimit(int64(limit))
	phones, err := s.repo.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &PhonePage{
		Celulares:      phones,
		CurrentPage:    page,
		TotalPages:     TotalPages(total, limit),
		TotalCelulares: total,
	}, nil
}

// NormalizePaging applies defaults: page < 1 becomes 1, limit < 1 becomes
// 10 and limit is capped at 100.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// PageSkip is the offset of page in int64. Pages past the representable
// range clamp to math.MaxInt64 and so read as empty.
func PageSkip(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	p, l := int64(page-1), int64(limit)
	if p > math.MaxInt64/l {
		return math.MaxInt64
	}
	return p * l
}

func TotalPages(total int64, limit int) int {
	if limit < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// SearchFilter matches term as a literal, case-insensitive substring of any
// of fields. An empty term matches everything.
func SearchFilter(term string, fields ...string) bson.M {
	term = strings.TrimSpace(term)
	if term == "" {
		return bson.M{}
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: pattern})
	}
	return bson.M{"$or": or}
}

// ResolveSort maps sortBy/sortOrder to a stable sort document. Unknown
// fields fall back to createdAt, anything but "desc" sorts ascending.
func ResolveSort(sortBy, sortOrder string) bson.D {
	if !phoneSortFields[sortBy] {
		sortBy = "createdAt"
	}
	dir := 1
	if strings.EqualFold(sortOrder, "desc") {
		dir = -1
	}
	return bson.D{{Key: sortBy, Value: dir}, {Key: "_id", Value: dir}}
}

type AccessoryService struct {
	Resource[models.Accessory, *models.Accessory, models.AccessoryInput]
}

func NewAccessoryService(repo store.Repository[models.Accessory], activity *ActivityRecorder) *AccessoryService {
	return &AccessoryService{Resource[models.Accessory, *models.Accessory, models.AccessoryInput]{
		crud:   crud[models.Accessory, *models.Accessory]{repo: repo, activity: activity, kind: accessoryKind},
		newDoc: func() *models.Accessory { return &models.Accessory{} },
	}}
}

// List returns every accessory in insertion order.
func (s *AccessoryService) List(ctx context.Context) ([]models.Accessory, error) {
	out, err := s.repo.Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

type PlanService struct {
	Resource[models.Plan, *models.Plan, models.PlanInput]
}

func NewPlanService(repo store.Repository[models.Plan], activity *ActivityRecorder) *PlanService {
	return &PlanService{Resource[models.Plan, *models.Plan, models.PlanInput]{
		crud:   crud[models.Plan, *models.Plan]{repo: repo, activity: activity, kind: planKind},
		newDoc: func() *models.Plan { return &models.Plan{} },
	}}
}

func (s *PlanService) List(ctx context.Context) ([]models.Plan, error) {
	out, err := s.repo.Find(ctx, bson.M{}, insertionOrder())
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

func insertionOrder() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
}
