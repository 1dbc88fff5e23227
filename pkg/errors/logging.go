package errors

import (
	"net/http"

	"go.uber.org/zap"
)

// LogError는 에러를 구조화된 로그로 기록합니다.
// 클라이언트 에러(4xx 분류)는 Warn, 나머지는 Error 레벨로 기록합니다.
func LogError(logger *zap.Logger, err error, msg string, fields ...zap.Field) {
	if err == nil {
		return
	}

	allFields := make([]zap.Field, 0, len(fields)+3)
	allFields = append(allFields, zap.Error(err))

	level := zap.ErrorLevel
	var appErr *AppError
	if As(err, &appErr) {
		allFields = append(allFields,
			zap.String("error_kind", appErr.Kind()),
			zap.String("error_code", appErr.Code()),
		)
		if ToHTTPStatus(appErr.Kind()) < http.StatusInternalServerError {
			level = zap.WarnLevel
		}
	}

	allFields = append(allFields, fields...)

	if ce := logger.Check(level, msg); ce != nil {
		ce.Write(allFields...)
	}
}
