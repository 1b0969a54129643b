// Package jwt issues and verifies the signed bearer tokens used for
// authentication. A token binds a user id to an absolute expiry; there is
// no server-side revocation, logout is a client-side no-op.
package jwt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Maker describes token issuance and verification.
type Maker interface {
	// GenerateToken returns a signed token embedding the user id.
	GenerateToken(userID int64) (string, error)
	// ParseToken verifies the signature and expiry and returns the
	// embedded user id.
	ParseToken(tokenStr string) (int64, error)
}

// MakerImpl implements Maker with an HS256 shared secret and a fixed
// token lifetime.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker builds a MakerImpl from the shared secret and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}

// GenerateToken signs a token whose subject is the user id and whose
// expiry is tokenTTL from now.
func (j *MakerImpl) GenerateToken(userID int64) (string, error) {
	const op = "jwt.GenerateToken"
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return signed, nil
}

// ParseToken validates the token and extracts the user id from the
// subject. Malformed tokens, bad signatures and expired tokens all fail
// the same way.
func (j *MakerImpl) ParseToken(tokenStr string) (int64, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("%s: invalid token", op)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid subject: %w", op, err)
	}
	return userID, nil
}
