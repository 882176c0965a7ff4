package gateway

import (
	"time"

	"tiger-gateway/internal/model"
	"tiger-gateway/internal/tiger"
)

// 交易所映射。老虎侧只有市场粒度，美股统一落到 NASDAQ。
var exchangeTiger2VT = map[tiger.Market]model.Exchange{
	tiger.MarketUS: model.ExchangeNASDAQ,
	tiger.MarketHK: model.ExchangeSEHK,
	tiger.MarketCN: model.ExchangeSSE,
}

var exchangeVT2Tiger = map[model.Exchange]tiger.Market{
	model.ExchangeNASDAQ: tiger.MarketUS,
	model.ExchangeNYSE:   tiger.MarketUS,
	model.ExchangeSEHK:   tiger.MarketHK,
	model.ExchangeSSE:    tiger.MarketCN,
	model.ExchangeSZSE:   tiger.MarketCN,
}

// 方向映射。
var directionTiger2VT = map[tiger.ActionType]model.Direction{
	tiger.ActionBuy:  model.DirectionLong,
	tiger.ActionSell: model.DirectionShort,
}

var directionVT2Tiger = map[model.Direction]tiger.ActionType{
	model.DirectionLong:  tiger.ActionBuy,
	model.DirectionShort: tiger.ActionSell,
}

// 订单类型映射。
var orderTypeTiger2VT = map[tiger.OrderType]model.OrderType{
	tiger.OrderTypeMKT:    model.OrderTypeMarket,
	tiger.OrderTypeLMT:    model.OrderTypeLimit,
	tiger.OrderTypeSTP:    model.OrderTypeStop,
	tiger.OrderTypeSTPLMT: model.OrderTypeStop,
}

var orderTypeVT2Tiger = map[model.OrderType]tiger.OrderType{
	model.OrderTypeMarket: tiger.OrderTypeMKT,
	model.OrderTypeLimit:  tiger.OrderTypeLMT,
	model.OrderTypeStop:   tiger.OrderTypeSTP,
}

// 订单状态映射。主机侧枚举没有撤单中状态，PENDING_CANCEL 与 EXPIRED
// 均归并为已撤销；未知状态按提交中处理。
var statusTiger2VT = map[tiger.OrderStatus]model.Status{
	tiger.StatusPendingNew:      model.StatusSubmitting,
	tiger.StatusNew:             model.StatusNotTraded,
	tiger.StatusPartiallyFilled: model.StatusPartTraded,
	tiger.StatusFilled:          model.StatusAllTraded,
	tiger.StatusPendingCancel:   model.StatusCancelled,
	tiger.StatusCancelled:       model.StatusCancelled,
	tiger.StatusRejected:        model.StatusRejected,
	tiger.StatusExpired:         model.StatusCancelled,
}

// K线周期映射。
var intervalVT2Tiger = map[model.Interval]string{
	model.IntervalMinute: "1min",
	model.IntervalHour:   "60min",
	model.IntervalDaily:  "day",
	model.IntervalWeekly: "week",
}

// 证券类型映射。
var productTiger2VT = map[string]model.Product{
	"STK":  model.ProductEquity,
	"FUND": model.ProductFund,
	"OPT":  model.ProductOption,
}

func mapStatus(status tiger.OrderStatus) model.Status {
	if mapped, ok := statusTiger2VT[status]; ok {
		return mapped
	}
	return model.StatusSubmitting
}

func mapExchange(market tiger.Market) model.Exchange {
	if mapped, ok := exchangeTiger2VT[market]; ok {
		return mapped
	}
	return model.ExchangeNASDAQ
}

func convertOrder(order tiger.Order, orderID, gatewayName string) model.OrderData {
	dt := time.Now().UTC()
	if order.UpdatedAt > 0 {
		dt = time.UnixMilli(order.UpdatedAt).UTC()
	} else if order.CreatedAt > 0 {
		dt = time.UnixMilli(order.CreatedAt).UTC()
	}

	direction, ok := directionTiger2VT[order.Action]
	if !ok {
		direction = model.DirectionLong
	}
	orderType, ok := orderTypeTiger2VT[order.OrderType]
	if !ok {
		orderType = model.OrderTypeLimit
	}

	return model.OrderData{
		OrderID:     orderID,
		Symbol:      order.Symbol,
		Exchange:    mapExchange(order.Market),
		Price:       order.LimitPrice,
		Volume:      float64(order.Quantity),
		Traded:      float64(order.Filled),
		Type:        orderType,
		Direction:   direction,
		Status:      mapStatus(order.Status),
		Datetime:    dt,
		GatewayName: gatewayName,
	}
}

func convertPosition(pos tiger.Position, gatewayName string) model.PositionData {
	direction := model.DirectionLong
	if pos.Quantity < 0 {
		direction = model.DirectionShort
	}

	volume := pos.Quantity
	if volume < 0 {
		volume = -volume
	}

	return model.PositionData{
		Symbol:      pos.Symbol,
		Exchange:    mapExchange(pos.Market),
		Direction:   direction,
		Volume:      volume,
		Frozen:      0,
		Price:       pos.AverageCost,
		PnL:         pos.UnrealizedPnL,
		GatewayName: gatewayName,
	}
}

func convertAccount(asset tiger.Asset, gatewayName string) model.AccountData {
	return model.AccountData{
		AccountID:   asset.Account,
		Balance:     asset.Summary.NetLiquidation,
		Frozen:      asset.Summary.InitMarginReq,
		GatewayName: gatewayName,
	}
}

func convertContract(contract tiger.Contract, gatewayName string) model.ContractData {
	product, ok := productTiger2VT[contract.SecType]
	if !ok {
		product = model.ProductEquity
	}

	size := contract.Multiplier
	if size <= 0 {
		size = 1
	}
	tick := contract.TickSize
	if tick <= 0 {
		tick = 0.01
	}
	lot := contract.LotSize
	if lot <= 0 {
		lot = 1
	}

	return model.ContractData{
		Symbol:      contract.Symbol,
		Exchange:    mapExchange(contract.Market),
		Name:        contract.Name,
		Product:     product,
		Size:        size,
		PriceTick:   tick,
		MinVolume:   lot,
		GatewayName: gatewayName,
	}
}

func convertQuote(quote tiger.Quote, exchange model.Exchange, gatewayName string) model.TickData {
	dt := time.Now().UTC()
	if quote.Timestamp > 0 {
		dt = time.UnixMilli(quote.Timestamp).UTC()
	}

	return model.TickData{
		Symbol:      quote.Symbol,
		Exchange:    exchange,
		Datetime:    dt,
		Name:        quote.Symbol,
		LastPrice:   quote.LatestPrice,
		Volume:      quote.Volume,
		Turnover:    quote.Amount,
		OpenPrice:   quote.Open,
		HighPrice:   quote.High,
		LowPrice:    quote.Low,
		PreClose:    quote.PrevClose,
		BidPrice1:   quote.BidPrice,
		AskPrice1:   quote.AskPrice,
		BidVolume1:  quote.BidSize,
		AskVolume1:  quote.AskSize,
		GatewayName: gatewayName,
	}
}

func convertBar(bar tiger.Bar, req model.HistoryRequest, gatewayName string) model.BarData {
	return model.BarData{
		Symbol:      req.Symbol,
		Exchange:    req.Exchange,
		Datetime:    time.UnixMilli(bar.Time).UTC(),
		Interval:    req.Interval,
		Volume:      bar.Volume,
		Turnover:    bar.Amount,
		OpenPrice:   bar.Open,
		HighPrice:   bar.High,
		LowPrice:    bar.Low,
		ClosePrice:  bar.Close,
		GatewayName: gatewayName,
	}
}
