package tiger

// Order 为老虎侧订单对象。
type Order struct {
	ID           int64       `json:"id"`
	Account      string      `json:"account"`
	Symbol       string      `json:"symbol"`
	Market       Market      `json:"market"`
	Action       ActionType  `json:"action"`
	OrderType    OrderType   `json:"order_type"`
	Quantity     int64       `json:"total_quantity"`
	Filled       int64       `json:"filled_quantity"`
	LimitPrice   float64     `json:"limit_price"`
	AuxPrice     float64     `json:"aux_price"`
	AvgFillPrice float64     `json:"avg_fill_price"`
	Status       OrderStatus `json:"status"`
	TimeInForce  TimeInForce `json:"time_in_force"`
	Reason       string      `json:"reason"`
	CreatedAt    int64       `json:"order_time"`
	UpdatedAt    int64       `json:"update_time"`
}

// AssetSummary 为账户资金汇总。
type AssetSummary struct {
	NetLiquidation float64 `json:"net_liquidation"`
	InitMarginReq  float64 `json:"init_margin_req"`
	Cash           float64 `json:"cash"`
	AvailableFunds float64 `json:"available_funds"`
	Currency       string  `json:"currency"`
}

// Asset 为账户资产对象。
type Asset struct {
	Account string       `json:"account"`
	Summary AssetSummary `json:"summary"`
}

// Position 为老虎侧持仓对象。
type Position struct {
	Account       string  `json:"account"`
	Symbol        string  `json:"symbol"`
	Market        Market  `json:"market"`
	Quantity      float64 `json:"quantity"`
	AverageCost   float64 `json:"average_cost"`
	MarketPrice   float64 `json:"market_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
}

// Contract 为老虎侧合约对象。
type Contract struct {
	Symbol     string  `json:"symbol"`
	Market     Market  `json:"market"`
	Name       string  `json:"name"`
	SecType    string  `json:"sec_type"`
	Currency   string  `json:"currency"`
	Multiplier float64 `json:"multiplier"`
	TickSize   float64 `json:"tick_size"`
	LotSize    float64 `json:"lot_size"`
}

// Quote 为老虎侧实时行情。
type Quote struct {
	Symbol      string  `json:"symbol"`
	LatestPrice float64 `json:"latest_price"`
	Volume      float64 `json:"volume"`
	Amount      float64 `json:"amount"`
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	PrevClose   float64 `json:"prev_close"`
	BidPrice    float64 `json:"bid_price"`
	AskPrice    float64 `json:"ask_price"`
	BidSize     float64 `json:"bid_size"`
	AskSize     float64 `json:"ask_size"`
	Timestamp   int64   `json:"timestamp"`
}

// Bar 为老虎侧K线。
type Bar struct {
	Symbol string  `json:"symbol"`
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	Amount float64 `json:"amount"`
}

// OrderParams 为下单请求参数。
type OrderParams struct {
	Account     string      `json:"account"`
	Symbol      string      `json:"symbol"`
	Market      Market      `json:"market"`
	Action      ActionType  `json:"action"`
	OrderType   OrderType   `json:"order_type"`
	Quantity    int64       `json:"total_quantity"`
	LimitPrice  float64     `json:"limit_price,omitempty"`
	AuxPrice    float64     `json:"aux_price,omitempty"`
	TimeInForce TimeInForce `json:"time_in_force"`
}

// BarParams 为K线查询参数。
type BarParams struct {
	Symbols   []string `json:"symbols"`
	Market    Market   `json:"market"`
	Period    string   `json:"period"`
	BeginTime string   `json:"begin_time"`
	EndTime   string   `json:"end_time"`
}
