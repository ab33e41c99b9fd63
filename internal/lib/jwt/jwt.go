package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"inbox_service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const purposeSession = "session"

var ErrInvalidToken = errors.New("invalid token")

type sessionClaims struct {
	jwt.RegisteredClaims
	Purpose             string `json:"purpose"`
	Username            string `json:"username"`
	IsVerified          bool   `json:"is_verified"`
	IsAcceptingMessages bool   `json:"is_accepting_messages"`
}

// NewToken signs a session token for user valid for ttl.
func NewToken(user models.User, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Purpose:             purposeSession,
		Username:            user.Username,
		IsVerified:          user.IsVerified,
		IsAcceptingMessages: user.IsAcceptingMessages,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// ParseToken checks signature and expiry of a session token and returns its claims.
// It never consults the store.
func ParseToken(tokenStr, secret string) (models.Claims, error) {
	const op = "jwt.ParseToken"

	claims := &sessionClaims{}

	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return models.Claims{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Purpose != purposeSession {
		return models.Claims{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID < 1 {
		return models.Claims{}, fmt.Errorf("%s: %w: bad subject", op, ErrInvalidToken)
	}

	return models.Claims{
		UserID:              userID,
		Username:            claims.Username,
		IsVerified:          claims.IsVerified,
		IsAcceptingMessages: claims.IsAcceptingMessages,
	}, nil
}
