package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

var ErrInvalidToken = errors.New("invalid token")

// Service issues and verifies bearer tokens.
type Service struct {
	config *config.Config
}

func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// IssueDevToken generates a token for local development without an external
// identity provider.
func (s *Service) IssueDevToken(userID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.config.JWTTTLMinutes) * time.Minute)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyJWT validates a token and returns its subject.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
