package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
// 对外暴露的四类错误,所有入口只能返回其中之一
type Kind string

const (
	Unauthenticated    Kind = "unauthenticated"     // 调用者未通过认证
	InvalidArgument    Kind = "invalid-argument"    // 缺失或非法的请求参数
	FailedPrecondition Kind = "failed-precondition" // 缺失必要配置(如 API Key)
	Internal           Kind = "internal"            // 下游服务或解析失败
)

// Error 带类别的错误
type Error struct {
	Kind    Kind
	Message string
	Err     error // 原始错误,用于诊断
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建指定类别的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap 包装原始错误,保留下游的错误信息
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf 提取错误的类别,无法识别的错误一律归为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// HTTPStatus 错误类别到 HTTP 状态码的映射
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}
