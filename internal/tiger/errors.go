package tiger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotConnected 表示客户端尚未完成初始化。
	ErrNotConnected = errors.New("tiger: 客户端未连接")
	// ErrPushUnavailable 表示推送通道不可用，行情与订单回报退化为轮询。
	ErrPushUnavailable = errors.New("tiger: 推送通道不可用")
)

// 可重试的业务错误码。
const (
	codeRateLimited    = 4012
	codeServerBusy     = 5001
	codeGatewayTimeout = 5002
)

// APIError 为开放平台返回的业务错误。
type APIError struct {
	Code    int
	Message string
	Method  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tiger: 接口 %s 返回错误 code=%d message=%s", e.Method, e.Code, e.Message)
}

// Retryable 判断业务错误是否可以重试。
func (e *APIError) Retryable() bool {
	switch e.Code {
	case codeRateLimited, codeServerBusy, codeGatewayTimeout:
		return true
	}
	return false
}

// IsRetryable 判断错误是否可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}

	return false
}
