package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oksasatya/go-ddd-user-mediator/internal/domain/apperror"
)

// TokenPurpose scopes a token so an activation link cannot be replayed as an
// access token and vice versa.
type TokenPurpose string

const (
	PurposeAccess     TokenPurpose = "access"
	PurposeActivation TokenPurpose = "activation"
	PurposeReset      TokenPurpose = "reset"
)

// JWTManager handles generation and validation of JWT tokens
type JWTManager struct {
	AccessSecret []byte
	ActionSecret []byte
	TTL          map[TokenPurpose]time.Duration
}

func NewJWTManager(accessSecret, actionSecret string, accessTTL, activationTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		AccessSecret: []byte(accessSecret),
		ActionSecret: []byte(actionSecret),
		TTL: map[TokenPurpose]time.Duration{
			PurposeAccess:     accessTTL,
			PurposeActivation: activationTTL,
			PurposeReset:      resetTTL,
		},
	}
}

type Claims struct {
	UserID  string       `json:"uid"`
	Purpose TokenPurpose `json:"pur"`
	jwt.RegisteredClaims
}

func (m *JWTManager) secret(p TokenPurpose) []byte {
	if p == PurposeAccess {
		return m.AccessSecret
	}
	return m.ActionSecret
}

func (m *JWTManager) GenerateToken(userID string, p TokenPurpose) (string, time.Time, error) {
	ttl, ok := m.TTL[p]
	if !ok {
		return "", time.Time{}, fmt.Errorf("jwt: unknown purpose %q", p)
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID:  userID,
		Purpose: p,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret(p))
	return s, exp, err
}

// ParseToken validates tokenStr for purpose p. Any failure is reported as
// apperror.ErrInvalidToken.
func (m *JWTManager) ParseToken(tokenStr string, p TokenPurpose) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret(p), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrInvalidToken, err)
	}
	if !tkn.Valid || claims.Purpose != p || claims.UserID == "" {
		return nil, apperror.ErrInvalidToken
	}
	return claims, nil
}

// TokenCodec adapts a JWTManager to the issue/decode ports for one purpose.
type TokenCodec struct {
	Manager *JWTManager
	Purpose TokenPurpose
}

func (c TokenCodec) Issue(identity string) (string, error) {
	s, _, err := c.Manager.GenerateToken(identity, c.Purpose)
	return s, err
}

func (c TokenCodec) Decode(token string) (string, error) {
	claims, err := c.Manager.ParseToken(token, c.Purpose)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
