package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// 공통 에러 분류
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnavailable     = "UNAVAILABLE"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
)

// CodePair 분류별 HTTP 상태 코드와 gRPC 코드
type CodePair struct {
	HTTPStatus int
	GRPCCode   codes.Code
}

var codeMapping = map[string]CodePair{
	ErrInternal:        {http.StatusInternalServerError, codes.Internal},
	ErrNotFound:        {http.StatusNotFound, codes.NotFound},
	ErrInvalidArgument: {http.StatusBadRequest, codes.InvalidArgument},
	ErrUnavailable:     {http.StatusServiceUnavailable, codes.Unavailable},
	ErrTimeout:         {http.StatusGatewayTimeout, codes.DeadlineExceeded},
	ErrNotImplemented:  {http.StatusNotImplemented, codes.Unimplemented},
}

// GetCodeMapping은 에러 분류에 대한 HTTP 및 gRPC 코드를 반환합니다
func GetCodeMapping(kind string) (int, codes.Code) {
	if pair, ok := codeMapping[kind]; ok {
		return pair.HTTPStatus, pair.GRPCCode
	}
	return http.StatusInternalServerError, codes.Internal
}

// kindFromHTTPStatus는 HTTP 상태 코드를 에러 분류로 변환합니다
func kindFromHTTPStatus(status int) string {
	switch {
	case status == http.StatusNotFound || status == http.StatusMethodNotAllowed:
		return ErrNotFound
	case status == http.StatusGatewayTimeout:
		return ErrTimeout
	case status == http.StatusServiceUnavailable:
		return ErrUnavailable
	case status == http.StatusNotImplemented:
		return ErrNotImplemented
	case status >= 400 && status < 500:
		return ErrInvalidArgument
	default:
		return ErrInternal
	}
}
