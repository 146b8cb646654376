package logging

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ogurasousui/jobboard-api/internal/platform/config"
)

const contextKey = "logger"

var log = zap.NewNop()

// Init は設定に基づいてグローバルロガーを初期化します。
func Init(cfg config.LogConfig) error {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var (
		logger *zap.Logger
		err    error
	)
	if cfg.Environment == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		logger, err = zapCfg.Build()
	} else {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapCfg.Build()
	}
	if err != nil {
		return err
	}

	log = logger
	zap.ReplaceGlobals(log)
	return nil
}

// L はグローバルロガーを返します。
func L() *zap.Logger {
	return log
}

// FromEcho はリクエストスコープのロガーを取り出します。未設定の場合は
// グローバルロガーを返します。
func FromEcho(c echo.Context) *zap.Logger {
	if logger, ok := c.Get(contextKey).(*zap.Logger); ok {
		return logger
	}
	return log
}

// Middleware はリクエスト単位のロガーをコンテキストへ格納し、処理後に
// アクセスログを出力する echo ミドルウェアを返します。
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			reqLogger := log.With(zap.String("request_id", requestID))
			c.Set(contextKey, reqLogger)

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			reqLogger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)

			return err
		}
	}
}
