package model

import (
	"fmt"
	"strings"
	"time"
)

// TickData 为一笔最新行情快照。
type TickData struct {
	Symbol      string
	Exchange    Exchange
	Datetime    time.Time
	Name        string
	LastPrice   float64
	Volume      float64
	Turnover    float64
	OpenPrice   float64
	HighPrice   float64
	LowPrice    float64
	PreClose    float64
	BidPrice1   float64
	AskPrice1   float64
	BidVolume1  float64
	AskVolume1  float64
	GatewayName string
}

// VTSymbol 返回 symbol.exchange 形式的全局唯一标识。
func (t TickData) VTSymbol() string {
	return vtSymbol(t.Symbol, t.Exchange)
}

// OrderData 为主机侧订单对象。
type OrderData struct {
	OrderID     string
	Symbol      string
	Exchange    Exchange
	Price       float64
	Volume      float64
	Traded      float64
	Type        OrderType
	Direction   Direction
	Status      Status
	Datetime    time.Time
	GatewayName string
}

// VTSymbol 返回 symbol.exchange 标识。
func (o OrderData) VTSymbol() string {
	return vtSymbol(o.Symbol, o.Exchange)
}

// VTOrderID 返回 gateway.orderid 形式的全局订单号。
func (o OrderData) VTOrderID() string {
	return fmt.Sprintf("%s.%s", o.GatewayName, o.OrderID)
}

// IsActive 判断订单是否仍处于活动状态。
func (o OrderData) IsActive() bool {
	return ActiveStatuses[o.Status]
}

// TradeData 为主机侧成交对象。
type TradeData struct {
	TradeID     string
	OrderID     string
	Symbol      string
	Exchange    Exchange
	Direction   Direction
	Price       float64
	Volume      float64
	Datetime    time.Time
	GatewayName string
}

// PositionData 为主机侧持仓对象。
type PositionData struct {
	Symbol      string
	Exchange    Exchange
	Direction   Direction
	Volume      float64
	Frozen      float64
	Price       float64
	PnL         float64
	GatewayName string
}

// AccountData 为主机侧资金账户对象。
type AccountData struct {
	AccountID   string
	Balance     float64
	Frozen      float64
	GatewayName string
}

// Available 返回可用资金。
func (a AccountData) Available() float64 {
	return a.Balance - a.Frozen
}

// ContractData 为主机侧合约对象。
type ContractData struct {
	Symbol      string
	Exchange    Exchange
	Name        string
	Product     Product
	Size        float64
	PriceTick   float64
	MinVolume   float64
	GatewayName string
}

// VTSymbol 返回 symbol.exchange 标识。
func (c ContractData) VTSymbol() string {
	return vtSymbol(c.Symbol, c.Exchange)
}

// BarData 为一根历史K线。
type BarData struct {
	Symbol      string
	Exchange    Exchange
	Datetime    time.Time
	Interval    Interval
	Volume      float64
	Turnover    float64
	OpenPrice   float64
	HighPrice   float64
	LowPrice    float64
	ClosePrice  float64
	GatewayName string
}

// LogData 为网关日志事件。
type LogData struct {
	Msg         string
	Level       string
	Time        time.Time
	GatewayName string
}

// OrderRequest 为主机侧委托请求。
type OrderRequest struct {
	Symbol    string
	Exchange  Exchange
	Direction Direction
	Type      OrderType
	Volume    float64
	Price     float64
}

// VTSymbol 返回 symbol.exchange 标识。
func (r OrderRequest) VTSymbol() string {
	return vtSymbol(r.Symbol, r.Exchange)
}

// CreateOrderData 根据请求生成初始订单对象。
func (r OrderRequest) CreateOrderData(orderID, gatewayName string) OrderData {
	return OrderData{
		OrderID:     orderID,
		Symbol:      r.Symbol,
		Exchange:    r.Exchange,
		Price:       r.Price,
		Volume:      r.Volume,
		Type:        r.Type,
		Direction:   r.Direction,
		Status:      StatusSubmitting,
		Datetime:    time.Now().UTC(),
		GatewayName: gatewayName,
	}
}

// CancelRequest 为主机侧撤单请求。
type CancelRequest struct {
	OrderID  string
	Symbol   string
	Exchange Exchange
}

// SubscribeRequest 为行情订阅请求。
type SubscribeRequest struct {
	Symbol   string
	Exchange Exchange
}

// VTSymbol 返回 symbol.exchange 标识。
func (r SubscribeRequest) VTSymbol() string {
	return vtSymbol(r.Symbol, r.Exchange)
}

// HistoryRequest 为历史K线查询请求。
type HistoryRequest struct {
	Symbol   string
	Exchange Exchange
	Interval Interval
	Start    time.Time
	End      time.Time
}

func vtSymbol(symbol string, exchange Exchange) string {
	return fmt.Sprintf("%s.%s", symbol, exchange)
}

// ParseVTSymbol 把 symbol.exchange 形式的标识拆成标的与交易所。
func ParseVTSymbol(vt string) (string, Exchange, error) {
	idx := strings.LastIndex(vt, ".")
	if idx <= 0 || idx == len(vt)-1 {
		return "", "", fmt.Errorf("非法的标的标识 %q", vt)
	}
	return vt[:idx], Exchange(vt[idx+1:]), nil
}
