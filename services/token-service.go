package services

import (
	"errors"
	"time"

	"github.com/shii2003/TaskManagementApp/apperrors"
	"github.com/shii2003/TaskManagementApp/logging"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is how long an issued token stays valid. There is no
// revocation: a token remains usable until this window runs out.
const TokenValidity = 7 * 24 * time.Hour

type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies authentication tokens. The secret is
// injected at construction so each process (and each test) carries its own.
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

func (s *TokenService) GenerateToken(id, email, name string) (string, error) {
	claims := &Claims{
		ID:    id,
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenValidity)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		logging.Logger.Errorf("Event ID: TOKEN_SIGN_FAILED, Description: Failed to generate token: %v", err)
		return "", apperrors.Internal("Failed to generate token")
	}
	return signed, nil
}

// VerifyToken checks signature and expiry. An expired token and a malformed or
// tampered one both come back Unauthorized, with different messages so the
// client can tell "log in again" apart from "invalid token".
func (s *TokenService) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Unauthorized("Token has expired. Please log in again.")
		}
		return nil, apperrors.Unauthorized("Invalid token. Please log in again.")
	}
	if !token.Valid {
		logging.Logger.Errorf("Event ID: TOKEN_VERIFY_FAILED, Description: Token parsed without error but is not valid")
		return nil, apperrors.Internal("Failed to verify token")
	}
	return claims, nil
}
