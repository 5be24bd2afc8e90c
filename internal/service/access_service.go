package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/campus-hub-api/internal/models"
)

// AccessConfig configures bearer token verification.
type AccessConfig struct {
	Secret string
	Issuer string
}

// AccessService turns bearer credentials into evaluated access tokens.
type AccessService struct {
	config AccessConfig
}

// NewAccessService constructs an AccessService.
func NewAccessService(config AccessConfig) *AccessService {
	return &AccessService{config: config}
}

// ParseToken verifies raw and returns the token it carries. Anything that fails verification
// yields the zero token, which holds no scopes and level 0.
func (s *AccessService) ParseToken(raw string) models.AccessToken {
	raw = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if raw == "" || s.config.Secret == "" {
		return models.AccessToken{}
	}

	claims := &models.TokenClaims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return models.AccessToken{}
	}

	return models.AccessToken{
		UserID: claims.UserID,
		Name:   claims.Name,
		Scopes: append([]models.Scope(nil), claims.Scopes...),
		Level:  claims.Level,
	}
}

// IssueToken signs token for ttl. It backs local tooling and tests; production tokens come
// from the identity service.
func (s *AccessService) IssueToken(token models.AccessToken, ttl time.Duration) (string, error) {
	if s.config.Secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now().UTC()
	claims := models.TokenClaims{
		UserID: token.UserID,
		Name:   token.Name,
		Scopes: token.Scopes,
		Level:  token.Level,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   token.UserID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// HasScope reports whether token grants at least one of required.
func HasScope(token *models.AccessToken, required ...models.Scope) bool {
	if token == nil {
		return false
	}
	for _, granted := range token.Scopes {
		for _, want := range required {
			if granted == want {
				return true
			}
		}
	}
	return false
}

// TokenLevel returns the level of token, 0 for a missing token.
func TokenLevel(token *models.AccessToken) int {
	if token == nil {
		return 0
	}
	return token.Level
}

// Authenticated reports whether token identifies a signed-in user.
func Authenticated(token *models.AccessToken) bool {
	return token != nil && token.UserID != "" && token.Level >= models.LevelAuthenticated
}

// CanMutate reports whether caller may change entity: the author may, and so may any holder
// of one of adminScopes.
func CanMutate(entity models.Owned, caller *models.AccessToken, adminScopes ...models.Scope) bool {
	if caller == nil || entity == nil {
		return false
	}
	if owner := entity.OwnerID(); owner != "" && owner == caller.UserID {
		return true
	}
	return HasScope(caller, adminScopes...)
}
