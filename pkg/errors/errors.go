// Package errors 定义跨层共享的错误分类。
// Service 层的业务错误通过 New / Newf 归类，Handler 层据此映射 HTTP 状态码。
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated 缺少或无效的凭证 → 401
	ErrUnauthenticated = errors.New("未认证")
	// ErrForbidden 无权访问 → 403
	ErrForbidden = errors.New("无权限访问")
	// ErrNotFound 引用的资源不存在 → 404
	ErrNotFound = errors.New("资源不存在")
	// ErrConflict 唯一约束冲突 → 409
	ErrConflict = errors.New("资源已存在")
	// ErrReferenced 仍被其他记录引用，无法删除 → 400
	ErrReferenced = errors.New("资源仍被引用")
	// ErrValidation 输入校验失败 → 400 / 422
	ErrValidation = errors.New("参数校验失败")
)

// Error 带分类的业务错误，Error() 返回面向用户的消息
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap 使 errors.Is(err, ErrNotFound) 等分类判断成立
func (e *Error) Unwrap() error { return e.Kind }

// New 创建归属于 kind 的业务错误
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf 同 New，消息按格式化生成
func Newf(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
