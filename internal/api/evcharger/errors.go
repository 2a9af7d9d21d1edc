package evcharger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidServiceKey 服务密钥未注册
var ErrInvalidServiceKey = errors.New("service key is not registered")

// StatusError 非 2xx 响应或网络层失败
type StatusError struct {
	StatusCode int // 网络层失败时为 0
	Err        error
}

func (e *StatusError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("request failed: status=%d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// ProviderError 接口返回的失败结果码
type ProviderError struct {
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: code=%s msg=%s", e.Code, e.Message)
}

// DecodeError 响应体无法解析
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode response: %v", e.Err) }

func (e *DecodeError) Unwrap() error { return e.Err }

// isUnregisteredKey 判断是否为未注册密钥提示
func isUnregisteredKey(msg string) bool {
	normalized := strings.ToUpper(strings.ReplaceAll(msg, "_", " "))
	return strings.Contains(normalized, "SERVICE KEY IS NOT REGISTERED")
}
