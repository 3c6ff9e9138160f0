package usecase

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/projectpilot/pkg/domain/interfaces"
	"github.com/secmon-lab/projectpilot/pkg/domain/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer     = "projectpilot"
	DefaultTokenTTL = 24 * time.Hour

	minPasswordLength = 8
)

var userNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Token is a signed bearer token issued to a user
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

type tokenClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// AuthUseCase manages local accounts and the bearer tokens that identify callers
type AuthUseCase struct {
	repo   interfaces.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthUseCase(repo interfaces.Repository, secret []byte, ttl time.Duration) *AuthUseCase {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthUseCase{repo: repo, secret: secret, ttl: ttl, now: time.Now}
}

// Register creates an account and returns a token for it
func (uc *AuthUseCase) Register(ctx context.Context, name, password string) (*model.User, *Token, error) {
	if !userNamePattern.MatchString(name) {
		return nil, nil, goerr.Wrap(model.ErrValidation, "user name must be 1-64 characters of letters, digits, '.', '_' or '-'")
	}
	if len(password) < minPasswordLength {
		return nil, nil, goerr.Wrap(model.ErrValidation, "password is too short", goerr.V("min_length", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to hash password")
	}

	user := &model.User{
		ID:           model.NewUserID(),
		Name:         name,
		PasswordHash: model.SecretString(hash),
		CreatedAt:    uc.now().UTC(),
	}
	if err := uc.repo.User().Create(ctx, user); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create user", goerr.V("name", name))
	}

	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login verifies the password and returns a new token. Unknown names and wrong
// passwords are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, name, password string) (*model.User, *Token, error) {
	user, err := uc.repo.User().GetByName(ctx, name)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil, goerr.Wrap(model.ErrUnauthenticated, "invalid user name or password")
	} else if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to get user", goerr.V("name", name))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, goerr.Wrap(model.ErrUnauthenticated, "invalid user name or password")
	}

	token, err := uc.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// IssueToken signs an HS256 token whose subject is the user id
func (uc *AuthUseCase) IssueToken(user *model.User) (*Token, error) {
	if len(uc.secret) == 0 {
		return nil, goerr.Wrap(model.ErrConfigurationMissing, "token signing secret is not configured")
	}

	now := uc.now()
	expiresAt := now.Add(uc.ttl)
	claims := tokenClaims{
		Name: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign token", goerr.V(model.UserIDKey, user.ID))
	}

	return &Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt.UTC(),
	}, nil
}

// Authenticate verifies a bearer token and returns the user it was issued to
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if len(uc.secret) == 0 {
		return nil, goerr.Wrap(model.ErrConfigurationMissing, "token signing secret is not configured")
	}

	claims := &tokenClaims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(uc.now),
	)
	if _, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return uc.secret, nil
	}); err != nil {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "invalid token", goerr.V("error", err.Error()))
	}

	user, err := uc.repo.User().Get(ctx, model.UserID(claims.Subject))
	if errors.Is(err, model.ErrNotFound) {
		return nil, goerr.Wrap(model.ErrUnauthenticated, "token subject no longer exists")
	} else if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, claims.Subject))
	}
	return user, nil
}

// Me returns the account of the authenticated caller
func (uc *AuthUseCase) Me(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}
	return user, nil
}
