package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
)

const (
	identityKey = "identity"

	bearerPrefix = "Bearer "
)

// Identity は認証済みリクエストの主体を表します。
type Identity struct {
	Username string
	IsAdmin  bool
}

// Authenticate は Authorization ヘッダーのトークンを検証し、成功した場合のみ
// Identity をコンテキストへ格納する echo ミドルウェアを返します。ヘッダーの
// 欠如やトークンの不正は匿名リクエストとして扱い、ここではエラーにしません。
// 拒否の判断は後段のガードが行います。
func Authenticate(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
				token := header[len(bearerPrefix):]
				if claims, err := codec.Verify(token); err == nil {
					c.Set(identityKey, &Identity{
						Username: claims.Username,
						IsAdmin:  claims.IsAdmin,
					})
				}
			}
			return next(c)
		}
	}
}

// IdentityFrom はコンテキストから認証済みの主体を取り出します。匿名の場合は
// nil を返します。
func IdentityFrom(c echo.Context) *Identity {
	if identity, ok := c.Get(identityKey).(*Identity); ok {
		return identity
	}
	return nil
}

// RequireAuthenticated はログイン済みであることを要求するガードです。
func RequireAuthenticated() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if IdentityFrom(c) == nil {
				return auth.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireAdmin は管理者であることを要求するガードです。
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil || !identity.IsAdmin {
				return auth.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireAdminOrSelf は管理者か、パスパラメータ param の username と一致する
// 本人であることを要求するガードです。
func RequireAdminOrSelf(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := IdentityFrom(c)
			if identity == nil {
				return auth.ErrUnauthorized
			}
			if !identity.IsAdmin && identity.Username != c.Param(param) {
				return auth.ErrUnauthorized
			}
			return next(c)
		}
	}
}
