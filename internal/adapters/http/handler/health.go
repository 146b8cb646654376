package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger はデータベース疎通確認のための最小インターフェースです。
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler はヘルスチェックの HTTP ハンドラです。
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler は HealthHandler を生成します。
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check は GET /health を処理します。データベースへ到達できない場合は
// 503 を返します。
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
