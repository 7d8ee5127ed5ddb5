package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"bloghub/dto"
	"bloghub/internal/authctx"
	repo "bloghub/internal/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/crypto/bcrypt"
)

func newAuth() *AuthService {
	return NewAuthService(repo.NewMemoryUserRepo(), "test-secret", time.Hour).WithCost(bcrypt.MinCost)
}

func TestRegisterAndLogin(t *testing.T) {
	s := newAuth()
	ctx := context.Background()

	reg, err := s.Register(ctx, dto.RegisterRequest{Name: " Aiko ", Email: "Aiko@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatal(err)
	}
	if reg.Name != "Aiko" || reg.Email != "aiko@example.com" || reg.Token == "" {
		t.Fatalf("register = %+v", reg)
	}

	uid, err := authctx.Parse([]byte("test-secret"), reg.Token)
	if err != nil || uid != reg.ID {
		t.Fatalf("token uid = %q, %v", uid, err)
	}

	login, err := s.Login(ctx, dto.LoginRequest{Email: "AIKO@example.com", Password: "secret123"})
	if err != nil || login.ID != reg.ID || login.Token == "" {
		t.Fatalf("login = %+v, %v", login, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newAuth()
	ctx := context.Background()
	in := dto.RegisterRequest{Name: "Aiko", Email: "aiko@example.com", Password: "secret123"}
	if _, err := s.Register(ctx, in); err != nil {
		t.Fatal(err)
	}
	in.Email = "AIKO@example.com"
	if _, err := s.Register(ctx, in); !errors.Is(err, ErrConflict) {
		t.Fatalf("err = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newAuth()
	_, err := s.Register(context.Background(), dto.RegisterRequest{Name: "A", Email: "nope", Password: "123"})
	var ve *ValidationError
	if !errors.As(err, &ve) || len(ve.Errors) != 3 {
		t.Fatalf("err = %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newAuth()
	ctx := context.Background()
	if _, err := s.Register(ctx, dto.RegisterRequest{Name: "Aiko", Email: "aiko@example.com", Password: "secret123"}); err != nil {
		t.Fatal(err)
	}

	for _, in := range []dto.LoginRequest{
		{Email: "aiko@example.com", Password: "wrong-pass"},
		{Email: "nobody@example.com", Password: "secret123"},
	} {
		_, err := s.Login(ctx, in)
		var e *Error
		if !errors.Is(err, ErrUnauthorized) || !errors.As(err, &e) || e.Message != "Invalid email or password" {
			t.Errorf("login %s: %v", in.Email, err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	s := newAuth()
	ctx := context.Background()
	reg, _ := s.Register(ctx, dto.RegisterRequest{Name: "Aiko", Email: "aiko@example.com", Password: "secret123"})

	uid, err := s.Authenticate(ctx, reg.Token)
	if err != nil || uid.Hex() != reg.ID {
		t.Fatalf("Authenticate = %v, %v", uid, err)
	}

	ghost, _ := authctx.Sign([]byte("test-secret"), bson.NewObjectID().Hex(), time.Hour, time.Now())
	for name, tok := range map[string]string{"garbage": "abc", "unknown user": ghost} {
		if _, err := s.Authenticate(ctx, tok); !errors.Is(err, ErrUnauthorized) {
			t.Errorf("%s: %v", name, err)
		}
	}

	p, err := s.Profile(ctx, uid)
	if err != nil || p.Email != "aiko@example.com" || p.Token != "" {
		t.Fatalf("profile = %+v, %v", p, err)
	}
}
