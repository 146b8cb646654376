package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ogurasousui/jobboard-api/internal/core/auth"
	"github.com/ogurasousui/jobboard-api/internal/core/company"
	"github.com/ogurasousui/jobboard-api/internal/core/job"
	"github.com/ogurasousui/jobboard-api/internal/core/user"
	"github.com/ogurasousui/jobboard-api/internal/platform/logging"
)

// errForbidden は認可済みでも許可されない操作に対して返却されます。
var errForbidden = errors.New("handler: forbidden")

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// badRequestErrors は 400 に対応付けられるドメインエラーです。重複登録も
// クライアント起因の入力誤りとして 400 で扱います。
var badRequestErrors = []error{
	company.ErrInvalidHandle,
	company.ErrInvalidName,
	company.ErrInvalidEmployeeRange,
	company.ErrInvalidNumEmployees,
	company.ErrNoUpdateFields,
	company.ErrHandleAlreadyExists,
	job.ErrInvalidID,
	job.ErrInvalidTitle,
	job.ErrInvalidSalary,
	job.ErrInvalidEquity,
	job.ErrNoUpdateFields,
	user.ErrInvalidUsername,
	user.ErrInvalidPassword,
	user.ErrInvalidEmail,
	user.ErrNoUpdateFields,
	user.ErrUsernameAlreadyExists,
	user.ErrAlreadyApplied,
}

var notFoundErrors = []error{
	company.ErrCompanyNotFound,
	job.ErrJobNotFound,
	job.ErrCompanyNotFound,
	user.ErrUserNotFound,
	user.ErrJobNotFound,
}

// statusOf はエラーを HTTP ステータスコードと公開メッセージへ対応付けます。
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, err.Error()
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest, err.Error()
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound, err.Error()
		}
	}

	return http.StatusInternalServerError, "internal server error"
}

// ErrorHandler はすべてのエラーを {"error":{"message","status"}} 形式の
// レスポンスへ変換する echo.HTTPErrorHandler を返します。
func ErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(status)
			}
		} else {
			status, message = statusOf(err)
		}

		if status == http.StatusInternalServerError {
			logging.FromEcho(c).Error("unhandled error", zap.Error(err))
		}

		body := errorBody{Error: errorDetail{Message: message, Status: status}}
		if c.Request().Method == http.MethodHead {
			if err := c.NoContent(status); err != nil {
				logging.FromEcho(c).Error("write error response", zap.Error(err))
			}
			return
		}
		if err := c.JSON(status, body); err != nil {
			logging.FromEcho(c).Error("write error response", zap.Error(err))
		}
	}
}
