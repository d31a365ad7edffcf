package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/fresh-market/pkg/apperr"
	"github.com/d60-Lab/fresh-market/pkg/logger"
)

// Response 统一响应体
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func SuccessMsg(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

// Created 创建成功（201）
func Created(c *gin.Context, msg string, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: msg, Data: data})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, Response{Success: false, Message: msg})
}

func Forbidden(c *gin.Context, msg string) {
	c.JSON(http.StatusForbidden, Response{Success: false, Message: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Message: msg})
}

func Conflict(c *gin.Context, msg string) {
	c.JSON(http.StatusConflict, Response{Success: false, Message: msg})
}

func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "internal server error"})
}

// Error 按 apperr 分类映射 HTTP 状态码
func Error(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		BadRequest(c, apperr.MessageOf(err))
	case apperr.KindNotFound:
		NotFound(c, apperr.MessageOf(err))
	case apperr.KindForbidden:
		Forbidden(c, apperr.MessageOf(err))
	case apperr.KindConflict:
		Conflict(c, apperr.MessageOf(err))
	default:
		InternalError(c, err)
	}
}
