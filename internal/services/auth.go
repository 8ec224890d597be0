package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/AnshRaj112/celustock-backend/internal/apperr"
	"github.com/AnshRaj112/celustock-backend/internal/logger"
	"github.com/AnshRaj112/celustock-backend/internal/models"
	"github.com/AnshRaj112/celustock-backend/internal/store"
	"github.com/AnshRaj112/celustock-backend/internal/validation"
	"github.com/AnshRaj112/celustock-backend/pkg/utils"
)

const (
	MsgUserExists         = "Usuário já existe"
	MsgMissingCredentials = "Por favor, informe email e senha"
	MsgInvalidCredentials = "Credenciais inválidas"
	MsgUserNotFound       = "Usuário não encontrado"
	MsgTokenInvalid       = "Não autorizado, token inválido"
)

type AuthService struct {
	users    store.Repository[models.User]
	activity *ActivityRecorder
	secret   []byte
	expiry   time.Duration
	now      func() time.Time
}

func NewAuthService(users store.Repository[models.User], activity *ActivityRecorder, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:    users,
		activity: activity,
		secret:   []byte(secret),
		expiry:   expiry,
		now:      time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Nome = strings.TrimSpace(req.Nome)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}

	existing, err := s.users.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Duplicate(MsgUserExists, nil)
	}

	hash, err := utils.HashPassword(req.Senha)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{Nome: req.Nome, Email: req.Email, Senha: hash}
	user.Normalize()
	if err := s.users.Insert(ctx, user); err != nil {
		if apperr.IsDuplicateKey(err) {
			return nil, apperr.Duplicate(MsgUserExists, err)
		}
		return nil, apperr.Internal(err)
	}

	principal := user.Principal()
	id := user.ID
	s.activity.Record(ctx, Entry{
		Acao:   "Usuário registrado",
		Item:   user.Nome,
		ItemID: &id,
		Tipo:   models.ActivityUser,
		Actor:  &principal,
	})

	return s.respond(user)
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Senha == "" {
		return nil, apperr.BadRequest(MsgMissingCredentials)
	}

	user, err := s.users.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	ok, err := utils.VerifyPassword(req.Senha, user.Senha)
	if err != nil {
		logger.Warn("stored password hash is unreadable", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	if !ok {
		return nil, apperr.Unauthorized(MsgInvalidCredentials)
	}

	return s.respond(user)
}

// Me loads the caller's profile.
func (s *AuthService) Me(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound(MsgUserNotFound)
	}
	return user, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	id, err := s.ParseToken(token)
	if err != nil {
		return nil, apperr.Unauthorized(MsgTokenInvalid)
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.Unauthorized(MsgUserNotFound)
	}

	p := user.Principal()
	return &p, nil
}

// IssueToken signs an HS256 token whose subject is the user id.
func (s *AuthService) IssueToken(userID primitive.ObjectID) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.Hex(),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies signature and expiry and returns the subject.
func (s *AuthService) ParseToken(tokenString string) (primitive.ObjectID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return primitive.NilObjectID, fmt.Errorf("invalid claims")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid user id in token")
	}
	return id, nil
}

func (s *AuthService) respond(user *models.User) (*models.AuthResponse, error) {
	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &models.AuthResponse{
		ID:    user.ID.Hex(),
		Nome:  user.Nome,
		Email: user.Email,
		Token: token,
	}, nil
}
