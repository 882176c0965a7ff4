package tiger

// Market 为老虎侧市场标识。
type Market string

const (
	MarketUS Market = "US"
	MarketHK Market = "HK"
	MarketCN Market = "CN"
)

// ActionType 为老虎侧买卖方向。
type ActionType string

const (
	ActionBuy  ActionType = "BUY"
	ActionSell ActionType = "SELL"
)

// OrderType 为老虎侧订单类型。
type OrderType string

const (
	OrderTypeMKT    OrderType = "MKT"
	OrderTypeLMT    OrderType = "LMT"
	OrderTypeSTP    OrderType = "STP"
	OrderTypeSTPLMT OrderType = "STP_LMT"
)

// OrderStatus 为老虎侧订单状态。
type OrderStatus string

const (
	StatusPendingNew      OrderStatus = "PENDING_NEW"
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusPendingCancel   OrderStatus = "PENDING_CANCEL"
	StatusCancelled       OrderStatus = "CANCELLED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusExpired         OrderStatus = "EXPIRED"
)

// TimeInForce 为订单有效期。
type TimeInForce string

const (
	TimeInForceDay TimeInForce = "DAY"
	TimeInForceGTC TimeInForce = "GTC"
)

// Language 为接口返回语言。
type Language string

const (
	LanguageZhCN Language = "zh_CN"
	LanguageEnUS Language = "en_US"
)

// 开放平台网关地址。
const (
	EndpointLive    = "https://openapi.tigerfintech.com/gateway"
	EndpointSandbox = "https://openapi-sandbox.tigerfintech.com/gateway"

	PushEndpointLive    = "wss://openapi.tigerfintech.com/push"
	PushEndpointSandbox = "wss://openapi-sandbox.tigerfintech.com/push"
)

// 接口方法名。
const (
	methodPlaceOrder  = "place_order"
	methodCancelOrder = "cancel_order"
	methodOrders      = "orders"
	methodAssets      = "assets"
	methodPositions   = "positions"
	methodContracts   = "contracts"
	methodQuote       = "quote_real_time"
	methodKline       = "kline"
)
