package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ogurasousui/jobboard-api/internal/adapters/http/handler"
	authmw "github.com/ogurasousui/jobboard-api/internal/adapters/http/middleware"
	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/company"
	"github.com/ogurasousui/jobboard-api/internal/core/job"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
	"github.com/ogurasousui/jobboard-api/internal/platform/logging"
	"github.com/ogurasousui/jobboard-api/internal/platform/metrics"
)

// Dependencies はサーバーの構築に必要な依存の束です。
type Dependencies struct {
	Companies company.UseCase
	Jobs      job.UseCase
	Users     user.UseCase
	Codec     *auth.TokenCodec
	DB        handler.Pinger
	Metrics   *metrics.HTTPMetrics
}

// Server は HTTP サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr      string
	shutdownTimeout time.Duration
	echo            *echo.Echo
}

// New は指定されたアドレスで待ち受ける HTTP サーバーを構築します。
func New(listenAddr string, shutdownTimeout time.Duration, deps Dependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler()

	e.Use(authmw.RequestID())
	e.Use(logging.Middleware())
	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(authmw.Authenticate(deps.Codec))

	registerRoutes(e, deps)

	return &Server{
		listenAddr:      listenAddr,
		shutdownTimeout: shutdownTimeout,
		echo:            e,
	}
}

func registerRoutes(e *echo.Echo, deps Dependencies) {
	companyHandler := handler.NewCompanyHandler(deps.Companies)
	jobHandler := handler.NewJobHandler(deps.Jobs)
	userHandler := handler.NewUserHandler(deps.Users, deps.Codec)
	authHandler := handler.NewAuthHandler(deps.Users, deps.Codec)

	requireAdmin := authmw.RequireAdmin()
	adminOrSelf := authmw.RequireAdminOrSelf("username")

	e.POST("/auth/token", authHandler.Token)
	e.POST("/auth/register", authHandler.Register)

	e.POST("/companies", companyHandler.Create, requireAdmin)
	e.GET("/companies", companyHandler.List)
	e.GET("/companies/:handle", companyHandler.Get)
	e.PATCH("/companies/:handle", companyHandler.Update, requireAdmin)
	e.DELETE("/companies/:handle", companyHandler.Delete, requireAdmin)

	e.POST("/jobs", jobHandler.Create, requireAdmin)
	e.GET("/jobs", jobHandler.List)
	e.GET("/jobs/:id", jobHandler.Get)
	e.PATCH("/jobs/:id", jobHandler.Update, requireAdmin)
	e.DELETE("/jobs/:id", jobHandler.Delete, requireAdmin)

	e.POST("/users", userHandler.Create, requireAdmin)
	e.GET("/users", userHandler.List, requireAdmin)
	e.GET("/users/:username", userHandler.Get, adminOrSelf)
	e.PATCH("/users/:username", userHandler.Update, adminOrSelf)
	e.DELETE("/users/:username", userHandler.Delete, adminOrSelf)
	e.POST("/users/:username/jobs/:id", userHandler.Apply, adminOrSelf)

	if deps.DB != nil {
		healthHandler := handler.NewHealthHandler(deps.DB)
		e.GET("/health", healthHandler.Check)
	}
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると Shutdown します。
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.echo.Start(s.listenAddr)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve HTTP: %w", err)
		}
		return nil
	}
}

// Handler は構成済みのルーターを返します。テストから直接リクエストを
// 流し込む用途を想定しています。
func (s *Server) Handler() http.Handler {
	return s.echo
}
