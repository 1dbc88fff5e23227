package errors

import (
	"errors"
	"fmt"
)

// 표준 라이브러리 함수 재노출
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// Error는 기본 에러 인터페이스를 확장합니다
type Error interface {
	error
	Kind() string  // 에러 분류 반환
	Code() string  // 응답에 노출되는 에러 코드 반환
	Unwrap() error // 내부 에러 반환
}

// AppError는 기본 에러 구현체입니다.
// kind는 HTTP/gRPC 상태 매핑에, code는 API 응답 본문에 사용됩니다.
type AppError struct {
	kind    string
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.message, e.err.Error())
	}
	return e.message
}

func (e *AppError) Kind() string {
	return e.kind
}

// Code는 응답 코드를 반환합니다. 지정되지 않았으면 분류를 그대로 사용합니다.
func (e *AppError) Code() string {
	if e.code == "" {
		return e.kind
	}
	return e.code
}

// Message는 내부 에러를 제외한 메시지를 반환합니다
func (e *AppError) Message() string {
	return e.message
}

func (e *AppError) Unwrap() error {
	return e.err
}

// Is는 분류와 코드가 같으면 같은 에러로 판단합니다.
// 메시지가 다른 인스턴스도 errors.Is(err, ErrStockNotFound) 형태로 비교할 수 있습니다.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.kind == t.kind && e.Code() == t.Code()
}

// NewAppError는 새 애플리케이션 에러를 생성합니다
func NewAppError(kind string, message string, err error) *AppError {
	return &AppError{
		kind:    kind,
		message: message,
		err:     err,
	}
}

// Define은 응답 코드를 가진 에러 정의를 생성합니다
func Define(kind, code, message string) *AppError {
	return &AppError{
		kind:    kind,
		code:    code,
		message: message,
	}
}

// WithMessage는 같은 분류와 코드로 메시지만 바꾼 에러를 반환합니다
func (e *AppError) WithMessage(format string, args ...any) *AppError {
	return &AppError{
		kind:    e.kind,
		code:    e.code,
		message: fmt.Sprintf(format, args...),
		err:     e.err,
	}
}

// WithCause는 같은 분류와 코드로 내부 에러를 감싼 에러를 반환합니다
func (e *AppError) WithCause(err error) *AppError {
	return &AppError{
		kind:    e.kind,
		code:    e.code,
		message: e.message,
		err:     err,
	}
}

// Wrap은 기존 에러를 래핑합니다
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// 기존 AppError인 경우 분류와 코드를 유지합니다
	var appErr *AppError
	if As(err, &appErr) {
		return &AppError{
			kind:    appErr.kind,
			code:    appErr.code,
			message: message,
			err:     err,
		}
	}

	return NewAppError(ErrInternal, message, err)
}
