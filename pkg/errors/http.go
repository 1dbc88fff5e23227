package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorDetail은 API 에러 응답의 error 필드입니다
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse는 API 에러 응답 본문입니다
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ToHTTPStatus는 에러 분류를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(kind string) int {
	httpStatus, _ := GetCodeMapping(kind)
	return httpStatus
}

// ToHTTPError는 에러를 Echo HTTP 에러로 변환합니다
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Kind()), appErr.Message()).SetInternal(err)
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}

	// 기본 에러는 500으로 처리
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// ToErrorResponse는 에러를 HTTP 상태 코드와 응답 본문으로 변환합니다.
// internalCode, internalMessage는 분류되지 않은 에러에 사용됩니다.
func ToErrorResponse(err error, internalCode, internalMessage string) (int, ErrorResponse) {
	var appErr *AppError
	if As(err, &appErr) {
		return ToHTTPStatus(appErr.Kind()), ErrorResponse{
			Error: ErrorDetail{Code: appErr.Code(), Message: appErr.Message()},
		}
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, ErrorResponse{
			Error: ErrorDetail{Code: kindFromHTTPStatus(echoErr.Code), Message: msg},
		}
	}

	return http.StatusInternalServerError, ErrorResponse{
		Error: ErrorDetail{Code: internalCode, Message: internalMessage},
	}
}

// FromHTTPError는 Echo HTTP 에러를 내부 에러로 변환합니다
func FromHTTPError(err error) error {
	if err == nil {
		return nil
	}

	// 이미 AppError인 경우 그대로 반환
	var appErr *AppError
	if As(err, &appErr) {
		return err
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = "HTTP error"
		}
		return NewAppError(kindFromHTTPStatus(echoErr.Code), msg, nil)
	}

	// 기본 에러는 Internal로 처리
	return NewAppError(ErrInternal, err.Error(), err)
}
