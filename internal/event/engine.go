package event

import (
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"

	"tiger-gateway/internal/model"
)

// Topic 表示事件主题。
type Topic string

const (
	TopicTick     Topic = "eTick"
	TopicOrder    Topic = "eOrder"
	TopicTrade    Topic = "eTrade"
	TopicPosition Topic = "ePosition"
	TopicAccount  Topic = "eAccount"
	TopicContract Topic = "eContract"
	TopicLog      Topic = "eLog"
)

// Engine 为主机侧事件引擎，网关通过它向上层发布行情与交易事件。
// 投递为异步模式，回调在总线自身的 goroutine 中执行。
type Engine struct {
	bus    EventBus.Bus
	logger *zap.Logger
}

// NewEngine 创建事件引擎。
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		bus:    EventBus.New(),
		logger: logger,
	}
}

// Publish 发布任意主题事件。
func (e *Engine) Publish(topic Topic, payload interface{}) {
	e.bus.Publish(string(topic), payload)
}

// Subscribe 按主题注册异步回调。
func (e *Engine) Subscribe(topic Topic, fn interface{}) error {
	if err := e.bus.SubscribeAsync(string(topic), fn, false); err != nil {
		return err
	}
	e.logger.Debug("事件主题订阅成功", zap.String("topic", string(topic)))
	return nil
}

// Unsubscribe 取消主题回调。
func (e *Engine) Unsubscribe(topic Topic, fn interface{}) error {
	return e.bus.Unsubscribe(string(topic), fn)
}

// WaitAsync 阻塞直到所有异步回调执行完成，主要用于退出与测试。
func (e *Engine) WaitAsync() {
	e.bus.WaitAsync()
}

// OnTick 发布行情事件。
func (e *Engine) OnTick(tick model.TickData) {
	e.Publish(TopicTick, tick)
}

// OnOrder 发布订单事件。
func (e *Engine) OnOrder(order model.OrderData) {
	e.Publish(TopicOrder, order)
}

// OnTrade 发布成交事件。
func (e *Engine) OnTrade(trade model.TradeData) {
	e.Publish(TopicTrade, trade)
}

// OnPosition 发布持仓事件。
func (e *Engine) OnPosition(position model.PositionData) {
	e.Publish(TopicPosition, position)
}

// OnAccount 发布资金事件。
func (e *Engine) OnAccount(account model.AccountData) {
	e.Publish(TopicAccount, account)
}

// OnContract 发布合约事件。
func (e *Engine) OnContract(contract model.ContractData) {
	e.Publish(TopicContract, contract)
}

// OnLog 发布网关日志事件。
func (e *Engine) OnLog(gatewayName, level, msg string) {
	e.Publish(TopicLog, model.LogData{
		Msg:         msg,
		Level:       level,
		Time:        time.Now().UTC(),
		GatewayName: gatewayName,
	})
}
