package tiger

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	apiVersion = "2.0"
	apiCharset = "UTF-8"
	signType   = "RSA"
)

// client 封装开放平台的签名请求与重试逻辑，TradeClient 与 QuoteClient 共用。
type client struct {
	cfg        ClientConfig
	logger     *zap.Logger
	httpClient *http.Client
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	endpoint   string
}

func newClient(cfg ClientConfig, logger *zap.Logger) (*client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TigerID == "" || cfg.Account == "" {
		return nil, errors.New("tiger: tiger_id 与 account 不能为空")
	}

	privateKey, err := cfg.ResolvePrivateKey()
	if err != nil {
		return nil, err
	}
	publicKey, err := cfg.ResolvePublicKey()
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &client{
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		privateKey: privateKey,
		publicKey:  publicKey,
		endpoint:   cfg.Endpoint(),
	}, nil
}

type response struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// call 构造签名请求并解析返回，out 为 nil 时丢弃返回数据。
func (c *client) call(ctx context.Context, method string, bizContent interface{}, out interface{}) error {
	params := map[string]string{
		"tiger_id":  c.cfg.TigerID,
		"method":    method,
		"charset":   apiCharset,
		"version":   apiVersion,
		"sign_type": signType,
		"timestamp": time.Now().UTC().Format("2006-01-02 15:04:05"),
	}

	if bizContent != nil {
		content, err := json.Marshal(bizContent)
		if err != nil {
			return fmt.Errorf("tiger: 序列化 biz_content 失败: %w", err)
		}
		params["biz_content"] = string(content)
	}

	sign, err := c.sign(params)
	if err != nil {
		return err
	}
	params["sign"] = sign

	var resp response
	err = c.callWithRetry(ctx, method, func() error {
		return c.post(ctx, params, &resp)
	})
	if err != nil {
		return err
	}

	if out != nil && len(resp.Data) > 0 {
		if err := json.Unmarshal(resp.Data, out); err != nil {
			return fmt.Errorf("tiger: 解析接口 %s 返回数据失败: %w", method, err)
		}
	}

	return nil
}

func (c *client) post(ctx context.Context, params map[string]string, out *response) error {
	body, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("tiger: 序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("tiger: 构造请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	if httpResp.StatusCode == http.StatusTooManyRequests || httpResp.StatusCode >= http.StatusInternalServerError {
		return &APIError{
			Code:    codeServerBusy,
			Message: fmt.Sprintf("http status %d", httpResp.StatusCode),
			Method:  params["method"],
		}
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("tiger: 解析响应失败: %w", err)
	}

	if out.Code != 0 {
		return &APIError{
			Code:    out.Code,
			Message: out.Message,
			Method:  params["method"],
		}
	}

	return nil
}

// sign 对排序后的参数串进行 RSA-SHA1 签名。
func (c *client) sign(params map[string]string) (string, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, params[k]))
	}
	content := strings.Join(pairs, "&")

	digest := sha1.Sum([]byte(content))
	signature, err := rsa.SignPKCS1v15(rand.Reader, c.privateKey, crypto.SHA1, digest[:])
	if err != nil {
		return "", fmt.Errorf("tiger: 请求签名失败: %w", err)
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

func (c *client) callWithRetry(ctx context.Context, operation string, fn func() error) error {
	attempt := 0
	delay := c.cfg.RetryMinDelay
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	maxDelay := c.cfg.RetryMaxDelay
	if maxDelay <= 0 {
		maxDelay = 5 * time.Second
	}
	maxAttempts := c.cfg.RetryMaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		attempt++
		start := time.Now()
		err := fn()
		duration := time.Since(start)
		if err == nil {
			if attempt > 1 {
				c.logger.Info("接口调用重试后成功",
					zap.String("operation", operation),
					zap.Int("attempts", attempt),
					zap.Duration("latency", duration),
				)
			}
			return nil
		}

		if !classifyRetryable(err) || attempt >= maxAttempts {
			c.logger.Error("接口调用失败",
				zap.String("operation", operation),
				zap.Int("attempts", attempt),
				zap.Duration("latency", duration),
				zap.Error(err),
			)
			return err
		}

		wait := delay
		if wait > maxDelay {
			wait = maxDelay
		}

		c.logger.Warn("接口调用失败，等待重试",
			zap.String("operation", operation),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if IsRetryable(err) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
