package gateway

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tiger-gateway/internal/config"
	"tiger-gateway/internal/event"
	"tiger-gateway/internal/model"
	"tiger-gateway/internal/tiger"
	"tiger-gateway/internal/tiger/push"
)

type tradeAPI interface {
	Account() string
	PlaceOrder(ctx context.Context, params tiger.OrderParams) (int64, error)
	CancelOrder(ctx context.Context, orderID int64) error
	GetOrders(ctx context.Context) ([]tiger.Order, error)
	GetAssets(ctx context.Context) ([]tiger.Asset, error)
	GetPositions(ctx context.Context) ([]tiger.Position, error)
	GetContracts(ctx context.Context, market tiger.Market) ([]tiger.Contract, error)
}

type quoteAPI interface {
	GetQuotes(ctx context.Context, symbols []string, market tiger.Market) ([]tiger.Quote, error)
	GetBars(ctx context.Context, params tiger.BarParams) ([]tiger.Bar, error)
}

type pushChannel interface {
	Start(ctx context.Context) error
	Stop()
	Connected() bool
	Subscribe(symbol string, market tiger.Market) error
}

// 合约查询覆盖的市场。
var contractMarkets = []tiger.Market{tiger.MarketUS, tiger.MarketHK, tiger.MarketCN}

// Gateway 为老虎证券网关，把开放平台的查询与回报翻译为主机侧事件。
type Gateway struct {
	name   string
	cfg    config.TigerConfig
	engine *event.Engine
	logger *zap.Logger

	trade tradeAPI
	quote quoteAPI
	push  pushChannel

	mu           sync.Mutex
	orderCount   int64
	placing      int
	held         []tiger.Order
	orders       map[string]model.OrderData
	localToTiger map[string]int64
	tigerToLocal map[int64]string
	subscribed   map[string]model.SubscribeRequest

	cancel context.CancelFunc
	wg     sync.WaitGroup

	queryInterval time.Duration
}

// New 创建网关实例。
func New(cfg config.TigerConfig, gatewayName string, queryInterval time.Duration, engine *event.Engine, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queryInterval <= 0 {
		queryInterval = 5 * time.Second
	}
	return &Gateway{
		name:          gatewayName,
		cfg:           cfg,
		engine:        engine,
		logger:        logger,
		orders:        make(map[string]model.OrderData),
		localToTiger:  make(map[string]int64),
		tigerToLocal:  make(map[int64]string),
		subscribed:    make(map[string]model.SubscribeRequest),
		queryInterval: queryInterval,
	}
}

// Name 返回网关名称。
func (g *Gateway) Name() string {
	return g.name
}

func (g *Gateway) clientConfig() tiger.ClientConfig {
	language := tiger.LanguageZhCN
	if g.cfg.Language == config.LangEnUS {
		language = tiger.LanguageEnUS
	}

	return tiger.ClientConfig{
		TigerID:          g.cfg.TigerID,
		Account:          g.cfg.Account,
		PrivateKey:       g.cfg.PrivateKey,
		PrivateKeyPath:   g.cfg.PrivateKeyPath,
		PublicKeyPath:    g.cfg.PublicKeyPath,
		Sandbox:          g.cfg.Environment == config.EnvSandbox,
		Language:         language,
		RetryMaxAttempts: g.cfg.Retry.MaxAttempts,
		RetryMinDelay:    g.cfg.Retry.MinDelay,
		RetryMaxDelay:    g.cfg.Retry.MaxDelay,
	}
}

// Connect 建立交易与行情客户端，尝试建立推送通道并启动轮询。
// 推送通道建立失败不是致命错误，网关退化为轮询模式继续提供
// 下单与查询能力。
func (g *Gateway) Connect(ctx context.Context) error {
	if g.cfg.TigerID == "" || g.cfg.Account == "" {
		g.writeLog("warn", "请填写 Tiger ID 和账户信息")
		return errors.New("gateway: tiger_id 与 account 不能为空")
	}

	clientCfg := g.clientConfig()

	if g.trade == nil {
		trade, err := tiger.NewTradeClient(clientCfg, g.logger)
		if err != nil {
			g.writeLog("error", fmt.Sprintf("创建交易客户端失败: %v", err))
			return err
		}
		g.trade = trade
	}

	if g.quote == nil {
		quote, err := tiger.NewQuoteClient(clientCfg, g.logger)
		if err != nil {
			g.writeLog("error", fmt.Sprintf("创建行情客户端失败: %v", err))
			return err
		}
		g.quote = quote
	}

	runCtx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel

	if g.push == nil {
		g.push = push.NewClient(clientCfg, push.Handler{
			OnQuote: g.onPushQuote,
			OnOrder: g.onPushOrder,
			OnDisconnected: func(err error) {
				g.writeLog("warn", fmt.Sprintf("推送通道断开: %v", err))
			},
		}, g.logger)
	}

	if err := g.push.Start(runCtx); err != nil {
		g.writeLog("warn", fmt.Sprintf("推送通道建立失败，退化为轮询模式: %v", err))
	} else {
		g.writeLog("info", "推送通道建立成功")
	}

	g.writeLog("info", "老虎证券接口连接成功")

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return g.QueryAccount(groupCtx) })
	group.Go(func() error { return g.QueryPosition(groupCtx) })
	group.Go(func() error { return g.QueryOrders(groupCtx) })
	group.Go(func() error { return g.QueryContracts(groupCtx) })
	if err := group.Wait(); err != nil {
		g.writeLog("warn", fmt.Sprintf("初始查询部分失败: %v", err))
	}

	g.wg.Add(1)
	go g.pollLoop(runCtx)

	return nil
}

// Close 停止轮询与推送通道。
func (g *Gateway) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	if g.push != nil {
		g.push.Stop()
	}
	g.wg.Wait()
}

// Subscribe 订阅行情。推送通道可用时走实时推送，否则由轮询兜底。
func (g *Gateway) Subscribe(req model.SubscribeRequest) error {
	market, ok := exchangeVT2Tiger[req.Exchange]
	if !ok {
		g.writeLog("warn", fmt.Sprintf("不支持的交易所: %s", req.Exchange))
		return fmt.Errorf("gateway: 不支持的交易所 %s", req.Exchange)
	}

	g.mu.Lock()
	g.subscribed[req.Symbol] = req
	g.mu.Unlock()

	if g.push != nil {
		if err := g.push.Subscribe(req.Symbol, market); err != nil {
			g.writeLog("warn", fmt.Sprintf("推送订阅失败，行情由轮询兜底: %s", req.VTSymbol()))
			return nil
		}
	}

	g.writeLog("info", fmt.Sprintf("订阅行情成功: %s", req.VTSymbol()))
	return nil
}

// SendOrder 发送委托，返回 gateway.orderid 形式的全局订单号。
func (g *Gateway) SendOrder(ctx context.Context, req model.OrderRequest) (string, error) {
	if g.trade == nil {
		return "", tiger.ErrNotConnected
	}

	market, ok := exchangeVT2Tiger[req.Exchange]
	if !ok {
		g.writeLog("warn", fmt.Sprintf("不支持的交易所: %s", req.Exchange))
		return "", fmt.Errorf("gateway: 不支持的交易所 %s", req.Exchange)
	}

	action, ok := directionVT2Tiger[req.Direction]
	if !ok {
		return "", fmt.Errorf("gateway: 不支持的委托方向 %s", req.Direction)
	}

	orderType, ok := orderTypeVT2Tiger[req.Type]
	if !ok {
		orderType = tiger.OrderTypeLMT
	}

	params := tiger.OrderParams{
		Account:     g.trade.Account(),
		Symbol:      req.Symbol,
		Market:      market,
		Action:      action,
		OrderType:   orderType,
		Quantity:    int64(req.Volume),
		TimeInForce: tiger.TimeInForceDay,
	}

	switch req.Type {
	case model.OrderTypeLimit:
		params.LimitPrice = req.Price
	case model.OrderTypeStop:
		params.AuxPrice = req.Price
	}

	// 委托在途期间老虎侧订单号未知，先计入 placing，让未识别的
	// 订单推送暂存，等映射登记后再回放，避免同一笔订单被铸成两个本地号。
	g.mu.Lock()
	g.orderCount++
	localID := strconv.FormatInt(g.orderCount, 10)
	g.placing++
	g.mu.Unlock()

	tigerID, err := g.trade.PlaceOrder(ctx, params)
	if err != nil {
		g.mu.Lock()
		g.placing--
		held := g.takeHeldLocked()
		g.mu.Unlock()
		g.replayHeld(held)

		g.writeLog("error", fmt.Sprintf("订单发送失败: %s %v", req.VTSymbol(), err))
		return "", err
	}

	order := req.CreateOrderData(localID, g.name)

	g.mu.Lock()
	g.placing--
	g.orders[localID] = order
	g.localToTiger[localID] = tigerID
	g.tigerToLocal[tigerID] = localID
	held := g.takeHeldLocked()
	g.mu.Unlock()

	g.engine.OnOrder(order)
	g.replayHeld(held)
	g.writeLog("info", fmt.Sprintf("订单发送成功: %s %s %v@%v",
		req.VTSymbol(), req.Direction, req.Volume, req.Price))

	return order.VTOrderID(), nil
}

// takeHeldLocked 在没有在途委托时取走暂存的订单推送。调用方需持有 g.mu。
func (g *Gateway) takeHeldLocked() []tiger.Order {
	if g.placing > 0 || len(g.held) == 0 {
		return nil
	}
	held := g.held
	g.held = nil
	return held
}

func (g *Gateway) replayHeld(held []tiger.Order) {
	for _, tigerOrder := range held {
		g.publishOrder(tigerOrder)
	}
}

// CancelOrder 撤销委托。
func (g *Gateway) CancelOrder(ctx context.Context, req model.CancelRequest) error {
	if g.trade == nil {
		return tiger.ErrNotConnected
	}

	g.mu.Lock()
	tigerID, ok := g.localToTiger[req.OrderID]
	g.mu.Unlock()

	if !ok {
		// 轮询查到的历史订单直接以老虎侧订单号作为本地号
		parsed, err := strconv.ParseInt(req.OrderID, 10, 64)
		if err != nil {
			return fmt.Errorf("gateway: 未知订单号 %s", req.OrderID)
		}
		tigerID = parsed
	}

	if err := g.trade.CancelOrder(ctx, tigerID); err != nil {
		g.writeLog("error", fmt.Sprintf("撤销订单失败: %s %v", req.OrderID, err))
		return err
	}

	g.writeLog("info", fmt.Sprintf("撤销订单: %s", req.OrderID))
	return nil
}

// QueryAccount 查询账户资金并发布资金事件。
func (g *Gateway) QueryAccount(ctx context.Context) error {
	if g.trade == nil {
		return tiger.ErrNotConnected
	}

	assets, err := g.trade.GetAssets(ctx)
	if err != nil {
		return fmt.Errorf("查询账户失败: %w", err)
	}

	for _, asset := range assets {
		g.engine.OnAccount(convertAccount(asset, g.name))
	}
	return nil
}

// QueryPosition 查询持仓并发布持仓事件。
func (g *Gateway) QueryPosition(ctx context.Context) error {
	if g.trade == nil {
		return tiger.ErrNotConnected
	}

	positions, err := g.trade.GetPositions(ctx)
	if err != nil {
		return fmt.Errorf("查询持仓失败: %w", err)
	}

	for _, pos := range positions {
		g.engine.OnPosition(convertPosition(pos, g.name))
	}
	return nil
}

// QueryOrders 查询当日订单并发布订单事件。
func (g *Gateway) QueryOrders(ctx context.Context) error {
	if g.trade == nil {
		return tiger.ErrNotConnected
	}

	orders, err := g.trade.GetOrders(ctx)
	if err != nil {
		return fmt.Errorf("查询订单失败: %w", err)
	}

	for _, tigerOrder := range orders {
		g.publishOrder(tigerOrder)
	}
	return nil
}

// QueryContracts 查询合约列表并发布合约事件。受 max_contract_count
// 上限保护，开启 preset_contract_only 时仅加载预设标的。
func (g *Gateway) QueryContracts(ctx context.Context) error {
	if g.trade == nil {
		return tiger.ErrNotConnected
	}

	preset := make(map[string]bool, len(g.cfg.Symbols))
	for _, symbol := range g.cfg.Symbols {
		preset[symbol] = true
	}

	loaded := 0
	truncated := false

	for _, market := range contractMarkets {
		if truncated {
			break
		}

		contracts, err := g.trade.GetContracts(ctx, market)
		if err != nil {
			return fmt.Errorf("查询合约失败: %w", err)
		}

		for _, contract := range contracts {
			if g.cfg.PresetContractOnly && !preset[contract.Symbol] {
				continue
			}
			// 只有真的还有合约要加载时才算截断，恰好填满上限不告警
			if loaded >= g.cfg.MaxContractCount {
				truncated = true
				break
			}
			g.engine.OnContract(convertContract(contract, g.name))
			loaded++
		}
	}

	if truncated {
		g.writeLog("warn", fmt.Sprintf("合约数量超过上限，仅加载前 %d 个", g.cfg.MaxContractCount))
	}

	g.writeLog("info", fmt.Sprintf("合约信息加载完成，共 %d 个", loaded))
	return nil
}

// QueryHistory 查询历史K线。
func (g *Gateway) QueryHistory(ctx context.Context, req model.HistoryRequest) ([]model.BarData, error) {
	if g.quote == nil {
		return nil, tiger.ErrNotConnected
	}

	market, ok := exchangeVT2Tiger[req.Exchange]
	if !ok {
		g.writeLog("warn", fmt.Sprintf("不支持的交易所: %s", req.Exchange))
		return nil, fmt.Errorf("gateway: 不支持的交易所 %s", req.Exchange)
	}

	period, ok := intervalVT2Tiger[req.Interval]
	if !ok {
		period = "day"
	}

	bars, err := g.quote.GetBars(ctx, tiger.BarParams{
		Symbols:   []string{req.Symbol},
		Market:    market,
		Period:    period,
		BeginTime: req.Start.Format("2006-01-02"),
		EndTime:   req.End.Format("2006-01-02"),
	})
	if err != nil {
		g.writeLog("error", fmt.Sprintf("查询历史数据失败: %v", err))
		return nil, err
	}

	history := make([]model.BarData, 0, len(bars))
	for _, bar := range bars {
		history = append(history, convertBar(bar, req, g.name))
	}

	g.writeLog("info", fmt.Sprintf("获取历史数据成功: %s 共%d条", req.Symbol, len(history)))
	return history, nil
}

// pollLoop 周期性刷新账户、持仓与订单；推送通道不可用时同时轮询行情。
func (g *Gateway) pollLoop(ctx context.Context) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.queryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := g.QueryAccount(ctx); err != nil {
				g.logger.Warn("轮询账户失败", zap.Error(err))
			}
			if err := g.QueryPosition(ctx); err != nil {
				g.logger.Warn("轮询持仓失败", zap.Error(err))
			}
			if err := g.QueryOrders(ctx); err != nil {
				g.logger.Warn("轮询订单失败", zap.Error(err))
			}
			if g.push == nil || !g.push.Connected() {
				g.pollQuotes(ctx)
			}
		}
	}
}

// pollQuotes 按市场分组批量拉取已订阅标的的行情快照。
func (g *Gateway) pollQuotes(ctx context.Context) {
	if g.quote == nil {
		return
	}

	g.mu.Lock()
	byMarket := make(map[tiger.Market][]string)
	exchanges := make(map[string]model.Exchange, len(g.subscribed))
	for symbol, req := range g.subscribed {
		market, ok := exchangeVT2Tiger[req.Exchange]
		if !ok {
			continue
		}
		byMarket[market] = append(byMarket[market], symbol)
		exchanges[symbol] = req.Exchange
	}
	g.mu.Unlock()

	for market, symbols := range byMarket {
		quotes, err := g.quote.GetQuotes(ctx, symbols, market)
		if err != nil {
			g.logger.Warn("轮询行情失败",
				zap.String("market", string(market)),
				zap.Error(err),
			)
			continue
		}
		for _, quote := range quotes {
			exchange, ok := exchanges[quote.Symbol]
			if !ok {
				continue
			}
			g.engine.OnTick(convertQuote(quote, exchange, g.name))
		}
	}
}

func (g *Gateway) onPushQuote(quote tiger.Quote) {
	g.mu.Lock()
	req, ok := g.subscribed[quote.Symbol]
	g.mu.Unlock()
	if !ok {
		return
	}

	g.engine.OnTick(convertQuote(quote, req.Exchange, g.name))
}

// onPushOrder 处理订单状态推送。推送可能早于下单请求的应答到达，
// 此时老虎侧订单号尚未登记，先暂存，待 SendOrder 完成映射后回放。
func (g *Gateway) onPushOrder(tigerOrder tiger.Order) {
	g.mu.Lock()
	if _, known := g.tigerToLocal[tigerOrder.ID]; !known && g.placing > 0 {
		g.held = append(g.held, tigerOrder)
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	g.publishOrder(tigerOrder)
}

// publishOrder 合并本地缓存后重新发布订单事件。已缓存订单的成交数量
// 增加时额外合成一笔成交事件；首次见到的订单不合成，否则重启后
// 轮询会把当日已完成的成交重新发一遍。
func (g *Gateway) publishOrder(tigerOrder tiger.Order) {
	g.mu.Lock()
	localID, ok := g.tigerToLocal[tigerOrder.ID]
	if !ok {
		localID = strconv.FormatInt(tigerOrder.ID, 10)
		g.tigerToLocal[tigerOrder.ID] = localID
		g.localToTiger[localID] = tigerOrder.ID
	}
	previous, seen := g.orders[localID]
	order := convertOrder(tigerOrder, localID, g.name)
	g.orders[localID] = order

	var trade *model.TradeData
	if seen && order.Traded > previous.Traded {
		price := tigerOrder.AvgFillPrice
		if price <= 0 {
			price = tigerOrder.LimitPrice
		}
		trade = &model.TradeData{
			// 以老虎侧订单号加累计成交量构造，跨进程重启保持稳定
			TradeID:     fmt.Sprintf("%d-%d", tigerOrder.ID, tigerOrder.Filled),
			OrderID:     localID,
			Symbol:      order.Symbol,
			Exchange:    order.Exchange,
			Direction:   order.Direction,
			Price:       price,
			Volume:      order.Traded - previous.Traded,
			Datetime:    order.Datetime,
			GatewayName: g.name,
		}
	}
	g.mu.Unlock()

	g.engine.OnOrder(order)
	if trade != nil {
		g.engine.OnTrade(*trade)
	}
}

// writeLog 同时写入结构化日志并发布主机侧日志事件。
func (g *Gateway) writeLog(level, msg string) {
	switch level {
	case "error":
		g.logger.Error(msg)
	case "warn":
		g.logger.Warn(msg)
	default:
		g.logger.Info(msg)
	}

	if g.engine != nil {
		g.engine.OnLog(g.name, level, msg)
	}
}
