package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"EventRegistration/internal/config"
	"EventRegistration/internal/log"
	"EventRegistration/internal/models"
	"EventRegistration/internal/store"
)

// AdminSubject is the fixed subject carried by every admin token.
const AdminSubject = "hardcoded_admin"

// AdminLookup finds stored admin credentials for the database auth source.
type AdminLookup interface {
	FindByUsername(ctx context.Context, username string) (*models.Administrator, error)
}

// AuthOptions configures the Auth service.
type AuthOptions struct {
	Secret   string
	Expiry   time.Duration
	Username string
	Password string
	// Source is config.AuthSourceConfig (default) or config.AuthSourceDatabase.
	Source string
	Admins AdminLookup
}

// Auth checks admin credentials and issues and validates session tokens.
type Auth struct {
	secret   []byte
	expiry   time.Duration
	username string
	password string
	source   string
	admins   AdminLookup
	now      func() time.Time
}

// NewAuth builds the auth service.
func NewAuth(opts AuthOptions) *Auth {
	if opts.Source == "" {
		opts.Source = config.AuthSourceConfig
	}
	return &Auth{
		secret:   []byte(opts.Secret),
		expiry:   opts.Expiry,
		username: opts.Username,
		password: opts.Password,
		source:   opts.Source,
		admins:   opts.Admins,
		now:      time.Now,
	}
}

// CheckCredentials reports whether the supplied pair equals the configured pair.
// An unconfigured username never matches.
func CheckCredentials(user, pass, wantUser, wantPass string) bool {
	if wantUser == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(wantPass)) == 1
	return userOK && passOK
}

// HashPassword returns the bcrypt hash stored by seed-admin.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

type adminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login verifies req and returns a signed token. Either wrong field yields
// models.ErrInvalidCredentials.
func (s *Auth) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	ok, err := s.verify(ctx, req.Username, req.Password)
	if err != nil {
		log.ErrorErr(log.CatAuth, "credential lookup failed", err)
		return nil, models.NewServiceError("Server error during login", err)
	}
	if !ok {
		log.Warn(log.CatAuth, "login rejected", "username", req.Username)
		return nil, models.ErrInvalidCredentials
	}

	principal := models.AdminPrincipal{Subject: AdminSubject, Username: req.Username}
	token, exp, err := s.IssueToken(principal)
	if err != nil {
		log.ErrorErr(log.CatAuth, "token signing failed", err)
		return nil, models.NewServiceError("Server error during login", err)
	}
	log.Info(log.CatAuth, "admin logged in", "username", req.Username)
	return &models.LoginResult{Token: token, ExpiresAt: exp, Admin: principal}, nil
}

func (s *Auth) verify(ctx context.Context, user, pass string) (bool, error) {
	if s.source != config.AuthSourceDatabase {
		return CheckCredentials(user, pass, s.username, s.password), nil
	}
	if s.admins == nil {
		return false, errors.New("database auth source without an admin store")
	}
	a, err := s.admins.FindByUsername(ctx, user)
	if errors.Is(err, store.ErrAdminNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(pass)) == nil, nil
}

// IssueToken signs an HS256 token for p, expiring after the configured expiry.
func (s *Auth) IssueToken(p models.AdminPrincipal) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.expiry)
	claims := adminClaims{
		Username: p.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateToken checks signature and expiry and returns the embedded principal.
// Any failure is models.ErrUnauthorized.
func (s *Auth) ValidateToken(token string) (*models.AdminPrincipal, error) {
	if token == "" {
		return nil, models.ErrUnauthorized
	}
	var claims adminClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		log.Debug(log.CatAuth, "token rejected", "error", err)
		return nil, models.ErrUnauthorized
	}
	return &models.AdminPrincipal{Subject: claims.Subject, Username: claims.Username}, nil
}
