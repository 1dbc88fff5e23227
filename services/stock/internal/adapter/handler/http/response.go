package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/grayson061030/stockapi/services/stock/internal/domain/entity"
	domainerrors "github.com/grayson061030/stockapi/services/stock/internal/domain/errors"
)

// Response 성공 응답 본문
type Response struct {
	Success    bool               `json:"success"`
	Data       any                `json:"data,omitempty"`
	Pagination *entity.Pagination `json:"pagination,omitempty"`
}

func respond(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func respondPage(c echo.Context, data any, page entity.Pagination) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data, Pagination: &page})
}

var validate = newValidator()

// newValidator 검증 메시지에 쿼리 파라미터 이름을 사용합니다.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("query"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// bindQuery 쿼리 파라미터를 req에 바인딩하고 검증합니다. 없는 파라미터는 req의 기존 값을 유지합니다.
func bindQuery(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		msg := "잘못된 요청 파라미터입니다"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			if s, isString := he.Message.(string); isString {
				msg = s
			}
		}
		return domainerrors.ErrInvalidRequest.WithMessage("%s", msg)
	}

	if err := validate.Struct(req); err != nil {
		return domainerrors.ErrInvalidRequest.WithMessage("%s", validationMessage(err))
	}
	return nil
}

// validationMessage 검증 실패 목록을 "field: 조건" 형식으로 합칩니다.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), constraintMessage(fe)))
	}
	return strings.Join(parts, ", ")
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 값입니다"
	case "min", "gte":
		return fe.Param() + " 이상이어야 합니다"
	case "max", "lte":
		return fe.Param() + " 이하여야 합니다"
	case "gtefield":
		return fe.Param() + "보다 크거나 같아야 합니다"
	default:
		return fe.Tag() + " 조건을 만족하지 않습니다"
	}
}
