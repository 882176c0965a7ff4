package push

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tiger-gateway/internal/tiger"
)

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 5 * time.Second
	pingInterval     = 30 * time.Second

	reconnectMinDelay = time.Second
	reconnectMaxDelay = time.Minute
)

// Handler 为推送回调集合，回调在读循环 goroutine 中执行。
type Handler struct {
	OnQuote        func(tiger.Quote)
	OnOrder        func(tiger.Order)
	OnConnected    func()
	OnDisconnected func(err error)
}

// Client 维护与老虎推送通道的长连接，断线后自动重连并恢复订阅。
type Client struct {
	cfg      tiger.ClientConfig
	handler  Handler
	logger   *zap.Logger
	dialer   *websocket.Dialer
	endpoint string

	mu         sync.Mutex
	conn       *websocket.Conn
	subscribed map[string]tiger.Market
	connected  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewClient 创建推送客户端。
func NewClient(cfg tiger.ClientConfig, handler Handler, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		cfg:        cfg,
		handler:    handler,
		logger:     logger,
		dialer:     &websocket.Dialer{HandshakeTimeout: handshakeTimeout},
		endpoint:   cfg.PushEndpoint(),
		subscribed: make(map[string]tiger.Market),
	}
}

// Start 建立首次连接并启动读循环。首次连接失败直接返回错误，
// 由调用方决定是否降级为轮询模式。
func (c *Client) Start(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", tiger.ErrPushUnavailable, err)
	}

	runCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.cancel = cancel
	c.done = make(chan struct{})
	c.mu.Unlock()

	if c.handler.OnConnected != nil {
		c.handler.OnConnected()
	}

	go c.run(runCtx)
	return nil
}

// Stop 关闭连接并等待读循环退出。
func (c *Client) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	conn := c.conn
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	if conn != nil {
		_ = conn.Close()
	}
	<-done
}

// Connected 返回当前连接状态。
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Subscribe 订阅标的行情，连接恢复后订阅会自动重放。
func (c *Client) Subscribe(symbol string, market tiger.Market) error {
	c.mu.Lock()
	c.subscribed[symbol] = market
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		return tiger.ErrPushUnavailable
	}

	return c.send(FrameSubscribe, subscribePayload{
		Symbols: []string{symbol},
		Market:  market,
	})
}

// Unsubscribe 取消标的订阅。
func (c *Client) Unsubscribe(symbol string, market tiger.Market) error {
	c.mu.Lock()
	delete(c.subscribed, symbol)
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		return tiger.ErrPushUnavailable
	}

	return c.send(FrameUnsubscribe, subscribePayload{
		Symbols: []string{symbol},
		Market:  market,
	})
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return nil, err
	}

	auth, err := encodeFrame(FrameAuth, authPayload{
		TigerID: c.cfg.TigerID,
		Account: c.cfg.Account,
	})
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, auth); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("push: 发送鉴权帧失败: %w", err)
	}

	return conn, nil
}

func (c *Client) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.send(FramePing, nil); err != nil {
					c.logger.Debug("发送心跳失败", zap.Error(err))
				}
			}
		}
	}()

	for {
		conn := c.currentConn()
		if conn == nil {
			return
		}

		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				c.markDisconnected(nil)
				return
			}

			c.markDisconnected(err)
			if !c.reconnect(ctx) {
				return
			}
			continue
		}

		c.dispatch(payload)
	}
}

func (c *Client) dispatch(payload []byte) {
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		c.logger.Warn("解析推送帧失败", zap.Error(err))
		return
	}

	switch frame.Type {
	case FrameQuote:
		quote, err := DecodeQuote(frame)
		if err != nil {
			c.logger.Warn("解析行情推送失败", zap.Error(err))
			return
		}
		if c.handler.OnQuote != nil {
			c.handler.OnQuote(quote)
		}
	case FrameOrderStatus:
		order, err := DecodeOrder(frame)
		if err != nil {
			c.logger.Warn("解析订单推送失败", zap.Error(err))
			return
		}
		if c.handler.OnOrder != nil {
			c.handler.OnOrder(order)
		}
	case FramePong:
	default:
		c.logger.Debug("忽略未知推送帧", zap.String("type", frame.Type))
	}
}

// reconnect 以指数退避方式重连，成功后重放全部订阅。
func (c *Client) reconnect(ctx context.Context) bool {
	delay := reconnectMinDelay

	for {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.logger.Warn("推送通道重连失败",
				zap.Duration("next_wait", delay),
				zap.Error(err),
			)
			delay *= 2
			if delay > reconnectMaxDelay {
				delay = reconnectMaxDelay
			}
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.connected = true
		resub := make(map[string]tiger.Market, len(c.subscribed))
		for symbol, market := range c.subscribed {
			resub[symbol] = market
		}
		c.mu.Unlock()

		c.logger.Info("推送通道重连成功", zap.Int("resubscribe", len(resub)))
		if c.handler.OnConnected != nil {
			c.handler.OnConnected()
		}

		for symbol, market := range resub {
			if err := c.send(FrameSubscribe, subscribePayload{
				Symbols: []string{symbol},
				Market:  market,
			}); err != nil {
				c.logger.Warn("恢复订阅失败",
					zap.String("symbol", symbol),
					zap.Error(err),
				)
			}
		}

		return true
	}
}

func (c *Client) send(frameType string, payload interface{}) error {
	data, err := encodeFrame(frameType, payload)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil || !c.connected {
		return tiger.ErrPushUnavailable
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) currentConn() *websocket.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

func (c *Client) markDisconnected(err error) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("推送通道连接断开", zap.Error(err))
		if c.handler.OnDisconnected != nil {
			c.handler.OnDisconnected(err)
		}
	}
}
