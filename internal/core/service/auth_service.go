package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/martijn/clustercalm/internal/core/domain"
	"github.com/martijn/clustercalm/internal/core/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenExpiration = time.Hour
	BcryptCost      = 10
	tokenIssuer     = "clustercalm"
)

const (
	SubjectUser   = "user"
	SubjectClient = "client"
)

type AuthService struct {
	userRepo     repository.UserRepository
	clientRepo   repository.ClientRepository
	jwtSecret    string
	jwtAlgorithm string
}

func NewAuthService(
	userRepo repository.UserRepository,
	clientRepo repository.ClientRepository,
	jwtSecret string,
	jwtAlgorithm string,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		clientRepo:   clientRepo,
		jwtSecret:    jwtSecret,
		jwtAlgorithm: jwtAlgorithm,
	}
}

// HashPassword hashes a password using bcrypt
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a hash
func (s *AuthService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// AuthenticateUser checks a username/password pair and issues a token.
func (s *AuthService) AuthenticateUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", unavailable("load user", err)
	}

	if !s.VerifyPassword(password, user.Password) {
		return "", ErrInvalidCredentials
	}

	return s.generateJWT(user.Username, SubjectUser, user.Scopes())
}

// AuthenticateClient checks client credentials and issues a token.
func (s *AuthService) AuthenticateClient(ctx context.Context, clientID, clientSecret string) (string, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", unavailable("load client", err)
	}

	if !s.VerifyPassword(clientSecret, client.Secret) {
		return "", ErrInvalidCredentials
	}

	return s.generateJWT(client.ID, SubjectClient, client.Scopes)
}

// CreateUser stores a new user with a hashed password.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, domain.NewValidationError("username and password are required")
	}
	_, err := s.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return nil, domain.NewValidationError("user already exists: %s", username)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, unavailable("load user", err)
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(username, hash)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, unavailable("create user", err)
	}
	return user, nil
}

// SetPassword replaces a user's password.
func (s *AuthService) SetPassword(ctx context.Context, username, password string) error {
	if password == "" {
		return domain.NewValidationError("password is required")
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return lookupError("load user", err, ErrUserNotFound)
	}

	if user.Password, err = s.HashPassword(password); err != nil {
		return err
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return lookupError("update user", err, ErrUserNotFound)
	}
	return nil
}

func (s *AuthService) DeleteUser(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		return lookupError("delete user", err, ErrUserNotFound)
	}
	return nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, unavailable("list users", err)
	}
	return users, nil
}

// CreateClient stores a new client and returns it together with the plain
// secret, which is not retrievable afterwards.
func (s *AuthService) CreateClient(ctx context.Context, label string, scopes []string) (*domain.Client, string, error) {
	if err := domain.ValidateScopes(scopes); err != nil {
		return nil, "", err
	}

	secret, err := GenerateSecret()
	if err != nil {
		return nil, "", err
	}
	hash, err := s.HashPassword(secret)
	if err != nil {
		return nil, "", err
	}

	client := domain.NewClient(label, hash, scopes)
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, "", err
	}
	return client, secret, nil
}

// GetClient loads a client by id.
func (s *AuthService) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("load client", err, ErrClientNotFound)
	}
	return client, nil
}

func (s *AuthService) ListClients(ctx context.Context) ([]*domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, unavailable("list clients", err)
	}
	return clients, nil
}

// UpdateClient relabels a client. Empty scopes leave the granted scopes
// untouched.
func (s *AuthService) UpdateClient(ctx context.Context, id, label string, scopes []string) (*domain.Client, error) {
	if strings.TrimSpace(label) == "" {
		return nil, domain.NewValidationError("label is required")
	}
	if err := domain.ValidateScopes(scopes); err != nil {
		return nil, err
	}

	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Label = strings.TrimSpace(label)
	if len(scopes) > 0 {
		client.Scopes = scopes
	}
	client.UpdatedAt = time.Now().UTC()

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, lookupError("update client", err, ErrClientNotFound)
	}
	return client, nil
}

func (s *AuthService) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return lookupError("delete client", err, ErrClientNotFound)
	}
	return nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != s.signingMethod().Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(*TokenClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token claims")
}

func (s *AuthService) generateJWT(subject, subjectType string, scopes []string) (string, error) {
	now := time.Now()

	claims := TokenClaims{
		SubjectType: subjectType,
		Scopes:      scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(s.signingMethod(), claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (s *AuthService) signingMethod() jwt.SigningMethod {
	switch s.jwtAlgorithm {
	case "HS384":
		return jwt.SigningMethodHS384
	case "HS512":
		return jwt.SigningMethodHS512
	default:
		return jwt.SigningMethodHS256
	}
}

// GenerateSecret returns a random 32 byte hex encoded secret.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// TokenClaims represents JWT claims. The subject is the actor id recorded in
// audit entries.
type TokenClaims struct {
	SubjectType string   `json:"sub_type"` // "user" or "client"
	Scopes      []string `json:"scopes"`
	jwt.RegisteredClaims
}

func (c *TokenClaims) ActorID() string {
	return c.Subject
}
