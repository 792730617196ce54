package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Sessions 无状态会话令牌：HS256，仅含 userId，无过期声明（生命周期由 cookie 决定）
type Sessions struct {
	Secret []byte
	Issuer string
}

func NewSessions(secret, issuer string) *Sessions {
	return &Sessions{Secret: []byte(secret), Issuer: issuer}
}

func (s *Sessions) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}
	claims := Claims{
		UserID:           userID,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: s.Issuer},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

func (s *Sessions) Parse(tokenStr string) (string, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return s.Secret, nil
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.UserID == "" {
		return "", ErrInvalidToken
	}
	return c.UserID, nil
}
