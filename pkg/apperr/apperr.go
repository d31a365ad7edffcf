package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误分类，决定 HTTP 映射
type Kind int

const (
	// KindInternal 存储/未知错误 -> 500
	KindInternal Kind = iota
	// KindValidation 入参非法/枚举越界 -> 400
	KindValidation
	// KindNotFound 订单/商品/规格不存在 -> 404
	KindNotFound
	// KindForbidden 非本人/非所属店铺 -> 403
	KindForbidden
	// KindConflict 当前状态下不允许的流转 -> 409
	KindConflict
)

// Error 带分类的业务错误；Message 可直接回给客户端
type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Message + ": " + e.err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error { return New(KindValidation, format, args...) }
func NotFound(format string, args ...any) *Error   { return New(KindNotFound, format, args...) }
func Forbidden(format string, args ...any) *Error  { return New(KindForbidden, format, args...) }
func Conflict(format string, args ...any) *Error   { return New(KindConflict, format, args...) }

// Internal 包装底层错误；Message 面向客户端，底层细节仅入日志
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, err: err}
}

// KindOf 取错误分类；非 *Error 一律按 Internal 处理
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// MessageOf 取对外展示文案
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "internal server error"
}
