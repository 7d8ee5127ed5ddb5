package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bloghub/dto"
	"bloghub/internal/authctx"
	"bloghub/internal/models"
	repo "bloghub/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = newError(ErrUnauthorized, "Invalid email or password")

// AuthService owns user identity: registration, password checks and token
// issuance. The rest of the app only ever sees the resolved user id.
type AuthService struct {
	users  repo.UserRepository
	secret []byte
	ttl    time.Duration
	cost   int
}

func NewAuthService(users repo.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), ttl: ttl, cost: bcrypt.DefaultCost}
}

// WithCost changes the bcrypt cost (tests use bcrypt.MinCost).
func (s *AuthService) WithCost(cost int) *AuthService {
	s.cost = cost
	return s
}

func (s *AuthService) issue(u *models.User) (dto.AuthResponse, error) {
	token, err := authctx.Sign(s.secret, u.ID.Hex(), s.ttl, time.Now())
	if err != nil {
		return dto.AuthResponse{}, err
	}
	return dto.AuthResponse{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Token: token}, nil
}

func (s *AuthService) Register(ctx context.Context, in dto.RegisterRequest) (dto.AuthResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return dto.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			return dto.AuthResponse{}, newError(ErrConflict, "User already exists")
		}
		return dto.AuthResponse{}, fmt.Errorf("create user: %w", err)
	}
	return s.issue(u)
}

func (s *AuthService) Login(ctx context.Context, in dto.LoginRequest) (dto.AuthResponse, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateStruct(in); err != nil {
		return dto.AuthResponse{}, err
	}

	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dto.AuthResponse{}, errBadCredentials
		}
		return dto.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return dto.AuthResponse{}, errBadCredentials
	}
	return s.issue(u)
}

func (s *AuthService) Profile(ctx context.Context, uid bson.ObjectID) (dto.AuthResponse, error) {
	if uid.IsZero() {
		return dto.AuthResponse{}, errNoUser
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dto.AuthResponse{}, errUserNotFound
		}
		return dto.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}
	return dto.AuthResponse{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}, nil
}

// Authenticate resolves a bearer token to an existing user id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (bson.ObjectID, error) {
	uidHex, err := authctx.Parse(s.secret, token)
	if err != nil {
		return bson.NilObjectID, newError(ErrUnauthorized, "Not authorized, token failed")
	}
	uid, err := bson.ObjectIDFromHex(uidHex)
	if err != nil {
		return bson.NilObjectID, newError(ErrUnauthorized, "Not authorized, token failed")
	}
	if _, err := s.users.FindByID(ctx, uid); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return bson.NilObjectID, newError(ErrUnauthorized, "User not found")
		}
		return bson.NilObjectID, fmt.Errorf("find user: %w", err)
	}
	return uid, nil
}
