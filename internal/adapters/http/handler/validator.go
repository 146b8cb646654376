package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator は echo.Validator として動作するリクエスト検証器です。
// 違反はすべて収集し、ひとつの 400 エラーにまとめて返します。
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator は RequestValidator を生成します。フィールド名は
// json タグから解決されます。
func NewRequestValidator() *RequestValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: validate}
}

// Validate は構造体を検証し、違反を 400 エラーへ変換します。
func (v *RequestValidator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	messages := make([]string, 0, len(violations))
	for _, violation := range violations {
		messages = append(messages, describeViolation(violation))
	}
	return echo.NewHTTPError(http.StatusBadRequest, strings.Join(messages, "; "))
}

func describeViolation(violation validator.FieldError) string {
	field := violation.Field()
	switch violation.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "min":
		if violation.Kind() == reflect.String {
			return field + " must be at least " + violation.Param() + " characters"
		}
		return field + " must be at least " + violation.Param()
	case "max":
		if violation.Kind() == reflect.String {
			return field + " must be at most " + violation.Param() + " characters"
		}
		return field + " must be at most " + violation.Param()
	case "gte":
		return field + " must be " + violation.Param() + " or greater"
	case "lte":
		return field + " must be " + violation.Param() + " or lower"
	default:
		return field + " is invalid"
	}
}
