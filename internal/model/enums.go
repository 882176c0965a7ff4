package model

// Direction 表示委托方向。
type Direction string

const (
	DirectionLong  Direction = "long"
	DirectionShort Direction = "short"
)

// Exchange 表示主机侧交易所标识。
type Exchange string

const (
	ExchangeNASDAQ Exchange = "NASDAQ"
	ExchangeNYSE   Exchange = "NYSE"
	ExchangeSEHK   Exchange = "SEHK"
	ExchangeSSE    Exchange = "SSE"
	ExchangeSZSE   Exchange = "SZSE"
)

// Product 表示合约品种。
type Product string

const (
	ProductEquity Product = "equity"
	ProductFund   Product = "fund"
	ProductOption Product = "option"
)

// Status 表示主机侧订单状态。注意主机侧枚举没有"撤单中"的中间状态，
// 供应商的撤单中状态在映射时归并为已撤销。
type Status string

const (
	StatusSubmitting Status = "submitting"
	StatusNotTraded  Status = "not_traded"
	StatusPartTraded Status = "part_traded"
	StatusAllTraded  Status = "all_traded"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// ActiveStatuses 为仍可能继续成交或撤销的状态集合。
var ActiveStatuses = map[Status]bool{
	StatusSubmitting: true,
	StatusNotTraded:  true,
	StatusPartTraded: true,
}

// OrderType 表示主机侧订单类型。
type OrderType string

const (
	OrderTypeMarket OrderType = "market"
	OrderTypeLimit  OrderType = "limit"
	OrderTypeStop   OrderType = "stop"
)

// Interval 表示K线周期。
type Interval string

const (
	IntervalMinute Interval = "1m"
	IntervalHour   Interval = "1h"
	IntervalDaily  Interval = "d"
	IntervalWeekly Interval = "w"
)
