package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
)

// AuthHandler はトークン発行まわりの HTTP ハンドラです。
type AuthHandler struct {
	users user.UseCase
	codec *auth.TokenCodec
}

// NewAuthHandler は AuthHandler を生成します。
func NewAuthHandler(users user.UseCase, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{users: users, codec: codec}
}

type tokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required,min=5"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
}

// Token は POST /auth/token を処理します。認証に成功した場合のみ
// トークンを発行します。
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	authenticated, err := h.users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	token, err := h.codec.Issue(authenticated.Username, authenticated.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// Register は POST /auth/register を処理します。自己登録のため管理者
// フラグは常に落とした状態で登録します。
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	registered, err := h.users.Register(c.Request().Context(), user.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return err
	}

	token, err := h.codec.Issue(registered.Username, registered.IsAdmin)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"token": token})
}
