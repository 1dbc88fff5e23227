// Package errors defines the stock API error codes.
package errors

import (
	pkgerrors "github.com/grayson061030/stockapi/pkg/errors"
)

// API error codes
const (
	CodeInvalidRequest   = "E400"
	CodeInvalidTag       = "E401"
	CodeStockNotFound    = "E404"
	CodeResourceNotFound = "E405"
	CodeInternal         = "E500"
	CodeDataAccess       = "E501"
)

var (
	ErrInvalidRequest   = pkgerrors.Define(pkgerrors.ErrInvalidArgument, CodeInvalidRequest, "유효하지 않은 요청입니다.")
	ErrInvalidTag       = pkgerrors.Define(pkgerrors.ErrInvalidArgument, CodeInvalidTag, "존재하지 않는 태그입니다.")
	ErrStockNotFound    = pkgerrors.Define(pkgerrors.ErrNotFound, CodeStockNotFound, "존재하지 않는 주식입니다.")
	ErrResourceNotFound = pkgerrors.Define(pkgerrors.ErrNotFound, CodeResourceNotFound, "요청한 리소스를 찾을 수 없습니다.")
	ErrInternal         = pkgerrors.Define(pkgerrors.ErrInternal, CodeInternal, "서버 내부 오류가 발생했습니다.")
	ErrDataAccess       = pkgerrors.Define(pkgerrors.ErrInternal, CodeDataAccess, "데이터 액세스 오류가 발생했습니다.")
)

// DataAccess wraps a storage failure.
func DataAccess(err error) error {
	if err == nil {
		return nil
	}
	return ErrDataAccess.WithCause(err)
}
