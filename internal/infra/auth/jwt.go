package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bryanwahyu/healthcare-collab/internal/domain/accounts"
)

// Claims carried by access tokens. Subject is the user id.
type Claims struct {
	Role      string `json:"role"`
	ProfileID string `json:"profile_id,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 access tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a token for the identity.
func (t *Tokens) Issue(id accounts.Identity) (string, error) {
	now := t.now()
	claims := Claims{
		Role: string(id.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if id.ProfileID != uuid.Nil {
		claims.ProfileID = id.ProfileID.String()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

var ErrInvalidToken = errors.New("invalid or expired token")

// Parse verifies the signature and expiry and returns the identity.
func (t *Tokens) Parse(tokenString string) (accounts.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now))
	if err != nil {
		return accounts.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return accounts.Identity{}, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return accounts.Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	role := accounts.Role(claims.Role)
	if !role.Valid() {
		return accounts.Identity{}, fmt.Errorf("%w: bad role", ErrInvalidToken)
	}
	id := accounts.Identity{UserID: userID, Role: role}
	if claims.ProfileID != "" {
		if id.ProfileID, err = uuid.Parse(claims.ProfileID); err != nil {
			return accounts.Identity{}, fmt.Errorf("%w: bad profile id", ErrInvalidToken)
		}
	}
	return id, nil
}
