package push

import (
	"encoding/json"
	"fmt"

	"tiger-gateway/internal/tiger"
)

// 推送帧类型。
const (
	FrameAuth        = "auth"
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameQuote       = "quote"
	FrameOrderStatus = "order_status"
	FramePing        = "ping"
	FramePong        = "pong"
)

// Frame 为推送通道上的消息帧。
type Frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type authPayload struct {
	TigerID string `json:"tiger_id"`
	Account string `json:"account"`
}

type subscribePayload struct {
	Symbols []string     `json:"symbols"`
	Market  tiger.Market `json:"market"`
}

// DecodeQuote 解析行情推送帧。
func DecodeQuote(frame Frame) (tiger.Quote, error) {
	var quote tiger.Quote
	if frame.Type != FrameQuote {
		return quote, fmt.Errorf("push: 帧类型 %q 不是行情推送", frame.Type)
	}
	if err := json.Unmarshal(frame.Data, &quote); err != nil {
		return quote, fmt.Errorf("push: 解析行情推送失败: %w", err)
	}
	return quote, nil
}

// DecodeOrder 解析订单状态推送帧。
func DecodeOrder(frame Frame) (tiger.Order, error) {
	var order tiger.Order
	if frame.Type != FrameOrderStatus {
		return order, fmt.Errorf("push: 帧类型 %q 不是订单推送", frame.Type)
	}
	if err := json.Unmarshal(frame.Data, &order); err != nil {
		return order, fmt.Errorf("push: 解析订单推送失败: %w", err)
	}
	return order, nil
}

func encodeFrame(frameType string, payload interface{}) ([]byte, error) {
	frame := Frame{Type: frameType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("push: 序列化 %s 帧失败: %w", frameType, err)
		}
		frame.Data = data
	}
	return json.Marshal(frame)
}
