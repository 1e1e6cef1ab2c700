// Package auth guards the HTTP API with an operator PIN. A correct PIN is
// exchanged for a short lived HS256 bearer token.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "pdv-api"

var (
	ErrInvalidPIN   = errors.New("invalid PIN")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrPINTooShort  = errors.New("PIN must have at least 4 digits")
)

// MinPINLength is the shortest PIN HashPIN accepts.
const MinPINLength = 4

// Claims carried by an operator token.
type Claims struct {
	Operator string `json:"operator"`
	jwt.RegisteredClaims
}

type Service struct {
	secret  []byte
	pinHash []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewService builds the token service. An empty secret disables
// authentication; see Enabled.
func NewService(secret, pinHash string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	return &Service{
		secret:  []byte(secret),
		pinHash: []byte(pinHash),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the clock used to stamp and check tokens.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Enabled() bool {
	return len(s.secret) > 0
}

// HashPIN returns the bcrypt hash to put in AUTH_PIN_HASH.
func HashPIN(pin string) (string, error) {
	if len(pin) < MinPINLength {
		return "", ErrPINTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}

	return string(hash), nil
}

// Login checks pin and issues a token for operator.
func (s *Service) Login(operator, pin string) (string, time.Time, error) {
	if len(s.pinHash) == 0 {
		return "", time.Time{}, ErrInvalidPIN
	}

	if err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin)); err != nil {
		return "", time.Time{}, ErrInvalidPIN
	}

	now := s.now()
	expires := now.Add(s.ttl)

	claims := Claims{
		Operator: operator,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   operator,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expires, nil
}

// Validate parses a token issued by Login.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
