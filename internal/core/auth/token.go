package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken はトークンの検証に失敗した場合に返却されます。
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnauthorized は認可ガードが要求を拒否した場合に返却されます。
	ErrUnauthorized = errors.New("auth: unauthorized")
)

// Claims はトークンに載せる認証情報です。username と管理者フラグのみを運びます。
type Claims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenCodec は HS256 によるトークンの発行と検証を行います。
type TokenCodec struct {
	signingKey []byte
	expiration time.Duration
}

// NewTokenCodec は TokenCodec を生成します。
func NewTokenCodec(signingKey string, expiration time.Duration) *TokenCodec {
	return &TokenCodec{signingKey: []byte(signingKey), expiration: expiration}
}

// Issue は指定されたユーザーのトークンを発行します。
func (c *TokenCodec) Issue(username string, isAdmin bool) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify はトークンを検証し、Claims を返します。署名方式の不一致・署名不正・
// 期限切れはいずれも ErrInvalidToken として返却されます。
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
