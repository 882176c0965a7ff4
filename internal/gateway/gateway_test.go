package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tiger-gateway/internal/config"
	"tiger-gateway/internal/event"
	"tiger-gateway/internal/model"
	"tiger-gateway/internal/tiger"
)

type mockTrade struct {
	mu          sync.Mutex
	placeID     int64
	placeErr    error
	placeInside func() // 在应答返回前触发，用于模拟先到的推送
	placed      []tiger.OrderParams
	cancelled   []int64
	cancelErr   error
	orders      []tiger.Order
	assets      []tiger.Asset
	positions   []tiger.Position
	contracts   map[tiger.Market][]tiger.Contract
}

func (m *mockTrade) Account() string { return "DU000001" }

func (m *mockTrade) PlaceOrder(ctx context.Context, params tiger.OrderParams) (int64, error) {
	if m.placeInside != nil {
		m.placeInside()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.placeErr != nil {
		return 0, m.placeErr
	}
	m.placed = append(m.placed, params)
	return m.placeID, nil
}

func (m *mockTrade) CancelOrder(ctx context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancelErr != nil {
		return m.cancelErr
	}
	m.cancelled = append(m.cancelled, orderID)
	return nil
}

func (m *mockTrade) GetOrders(ctx context.Context) ([]tiger.Order, error) {
	return m.orders, nil
}

func (m *mockTrade) GetAssets(ctx context.Context) ([]tiger.Asset, error) {
	return m.assets, nil
}

func (m *mockTrade) GetPositions(ctx context.Context) ([]tiger.Position, error) {
	return m.positions, nil
}

func (m *mockTrade) GetContracts(ctx context.Context, market tiger.Market) ([]tiger.Contract, error) {
	return m.contracts[market], nil
}

type mockQuote struct {
	quotes []tiger.Quote
	bars   []tiger.Bar
	err    error
}

func (m *mockQuote) GetQuotes(ctx context.Context, symbols []string, market tiger.Market) ([]tiger.Quote, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.quotes, nil
}

func (m *mockQuote) GetBars(ctx context.Context, params tiger.BarParams) ([]tiger.Bar, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.bars, nil
}

type mockPush struct {
	mu         sync.Mutex
	startErr   error
	subErr     error
	connected  bool
	subscribed []string
	stopped    bool
}

func (m *mockPush) Start(ctx context.Context) error {
	if m.startErr != nil {
		return m.startErr
	}
	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()
	return nil
}

func (m *mockPush) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.connected = false
	m.mu.Unlock()
}

func (m *mockPush) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockPush) Subscribe(symbol string, market tiger.Market) error {
	if m.subErr != nil {
		return m.subErr
	}
	m.mu.Lock()
	m.subscribed = append(m.subscribed, symbol)
	m.mu.Unlock()
	return nil
}

type eventCollector struct {
	mu       sync.Mutex
	orders   []model.OrderData
	trades   []model.TradeData
	ticks    []model.TickData
	accounts []model.AccountData
	contracts []model.ContractData
	logs     []model.LogData
}

func newCollector(t *testing.T, engine *event.Engine) *eventCollector {
	t.Helper()
	c := &eventCollector{}

	subs := []struct {
		topic event.Topic
		fn    interface{}
	}{
		{event.TopicOrder, func(o model.OrderData) { c.mu.Lock(); c.orders = append(c.orders, o); c.mu.Unlock() }},
		{event.TopicTrade, func(tr model.TradeData) { c.mu.Lock(); c.trades = append(c.trades, tr); c.mu.Unlock() }},
		{event.TopicTick, func(tk model.TickData) { c.mu.Lock(); c.ticks = append(c.ticks, tk); c.mu.Unlock() }},
		{event.TopicAccount, func(a model.AccountData) { c.mu.Lock(); c.accounts = append(c.accounts, a); c.mu.Unlock() }},
		{event.TopicContract, func(ct model.ContractData) { c.mu.Lock(); c.contracts = append(c.contracts, ct); c.mu.Unlock() }},
		{event.TopicLog, func(l model.LogData) { c.mu.Lock(); c.logs = append(c.logs, l); c.mu.Unlock() }},
	}
	for _, sub := range subs {
		if err := engine.Subscribe(sub.topic, sub.fn); err != nil {
			t.Fatalf("subscribe %s: %v", sub.topic, err)
		}
	}
	return c
}

func testTigerConfig() config.TigerConfig {
	return config.TigerConfig{
		TigerID:          "20150001",
		Account:          "DU000001",
		PrivateKey:       "inline-key",
		Environment:      config.EnvSandbox,
		Language:         config.LangZhCN,
		MaxContractCount: 100,
	}
}

func newTestGateway(t *testing.T) (*Gateway, *mockTrade, *mockQuote, *mockPush, *event.Engine, *eventCollector) {
	t.Helper()

	engine := event.NewEngine(nil)
	collector := newCollector(t, engine)

	g := New(testTigerConfig(), "TIGER", time.Second, engine, nil)

	mt := &mockTrade{placeID: 9001}
	mq := &mockQuote{}
	mp := &mockPush{}
	g.trade = mt
	g.quote = mq
	g.push = mp

	return g, mt, mq, mp, engine, collector
}

func TestSendOrder_AssignsIncreasingLocalIDs(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)

	req := model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNASDAQ,
		Direction: model.DirectionLong,
		Type:      model.OrderTypeLimit,
		Volume:    100,
		Price:     188.5,
	}

	first, err := g.SendOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}
	second, err := g.SendOrder(context.Background(), req)
	if err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}

	if first != "TIGER.1" || second != "TIGER.2" {
		t.Errorf("unexpected vt order ids: %s %s", first, second)
	}

	if len(mt.placed) != 2 {
		t.Fatalf("expected 2 vendor orders, got %d", len(mt.placed))
	}
	placed := mt.placed[0]
	if placed.Market != tiger.MarketUS {
		t.Errorf("NASDAQ order should route to US market, got %s", placed.Market)
	}
	if placed.OrderType != tiger.OrderTypeLMT || placed.LimitPrice != 188.5 {
		t.Errorf("unexpected vendor params: %+v", placed)
	}
	if placed.TimeInForce != tiger.TimeInForceDay {
		t.Errorf("unexpected time in force: %s", placed.TimeInForce)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.orders) != 2 {
		t.Fatalf("expected 2 order events, got %d", len(collector.orders))
	}
	if collector.orders[0].Status != model.StatusSubmitting {
		t.Errorf("new order event should be submitting, got %s", collector.orders[0].Status)
	}
}

func TestSendOrder_StopUsesAuxPrice(t *testing.T) {
	g, mt, _, _, _, _ := newTestGateway(t)

	_, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNYSE,
		Direction: model.DirectionShort,
		Type:      model.OrderTypeStop,
		Volume:    50,
		Price:     180,
	})
	if err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}

	placed := mt.placed[0]
	if placed.OrderType != tiger.OrderTypeSTP {
		t.Errorf("unexpected order type: %s", placed.OrderType)
	}
	if placed.AuxPrice != 180 || placed.LimitPrice != 0 {
		t.Errorf("stop order should carry aux price only: %+v", placed)
	}
	if placed.Action != tiger.ActionSell {
		t.Errorf("unexpected action: %s", placed.Action)
	}
}

func TestSendOrder_UnsupportedExchange(t *testing.T) {
	g, mt, _, _, _, _ := newTestGateway(t)

	_, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:   "VOD",
		Exchange: model.Exchange("LSE"),
		Type:     model.OrderTypeLimit,
		Direction: model.DirectionLong,
		Volume:   10,
	})
	if err == nil {
		t.Fatal("expected error for unsupported exchange")
	}
	if len(mt.placed) != 0 {
		t.Error("no vendor order should be placed")
	}
}

func TestSendOrder_VendorFailure(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)
	mt.placeErr = errors.New("insufficient buying power")

	id, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNASDAQ,
		Direction: model.DirectionLong,
		Type:      model.OrderTypeLimit,
		Volume:    100,
		Price:     188.5,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if id != "" {
		t.Errorf("failed order should return empty id, got %s", id)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.orders) != 0 {
		t.Error("failed order should not publish an order event")
	}
}

func TestCancelOrder_ResolvesVendorID(t *testing.T) {
	g, mt, _, _, _, _ := newTestGateway(t)

	if _, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNASDAQ,
		Direction: model.DirectionLong,
		Type:      model.OrderTypeLimit,
		Volume:    100,
		Price:     188.5,
	}); err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}

	if err := g.CancelOrder(context.Background(), model.CancelRequest{OrderID: "1"}); err != nil {
		t.Fatalf("CancelOrder returned error: %v", err)
	}
	if len(mt.cancelled) != 1 || mt.cancelled[0] != 9001 {
		t.Errorf("expected vendor cancel for id 9001, got %v", mt.cancelled)
	}
}

func TestCancelOrder_NumericFallback(t *testing.T) {
	g, mt, _, _, _, _ := newTestGateway(t)

	if err := g.CancelOrder(context.Background(), model.CancelRequest{OrderID: "777"}); err != nil {
		t.Fatalf("CancelOrder returned error: %v", err)
	}
	if len(mt.cancelled) != 1 || mt.cancelled[0] != 777 {
		t.Errorf("expected fallback to vendor id 777, got %v", mt.cancelled)
	}

	if err := g.CancelOrder(context.Background(), model.CancelRequest{OrderID: "abc"}); err == nil {
		t.Fatal("expected error for unknown non-numeric order id")
	}
}

func TestQueryContracts_CapTruncation(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)
	g.cfg.MaxContractCount = 3

	mt.contracts = map[tiger.Market][]tiger.Contract{
		tiger.MarketUS: {
			{Symbol: "AAPL", Market: tiger.MarketUS, SecType: "STK"},
			{Symbol: "MSFT", Market: tiger.MarketUS, SecType: "STK"},
			{Symbol: "NVDA", Market: tiger.MarketUS, SecType: "STK"},
			{Symbol: "AMZN", Market: tiger.MarketUS, SecType: "STK"},
		},
		tiger.MarketHK: {
			{Symbol: "00700", Market: tiger.MarketHK, SecType: "STK"},
		},
	}

	if err := g.QueryContracts(context.Background()); err != nil {
		t.Fatalf("QueryContracts returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.contracts) != 3 {
		t.Fatalf("expected contract list truncated to 3, got %d", len(collector.contracts))
	}

	truncationLogged := false
	for _, log := range collector.logs {
		if log.Level == "warn" {
			truncationLogged = true
		}
	}
	if !truncationLogged {
		t.Error("expected a warn log event about truncation")
	}
}

func TestQueryContracts_PresetOnly(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)
	g.cfg.PresetContractOnly = true
	g.cfg.Symbols = []string{"AAPL"}

	mt.contracts = map[tiger.Market][]tiger.Contract{
		tiger.MarketUS: {
			{Symbol: "AAPL", Market: tiger.MarketUS, SecType: "STK"},
			{Symbol: "MSFT", Market: tiger.MarketUS, SecType: "STK"},
		},
	}

	if err := g.QueryContracts(context.Background()); err != nil {
		t.Fatalf("QueryContracts returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.contracts) != 1 || collector.contracts[0].Symbol != "AAPL" {
		t.Errorf("expected only preset contract, got %+v", collector.contracts)
	}
}

func TestQueryOrders_PublishesConverted(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)

	mt.orders = []tiger.Order{
		{ID: 1, Symbol: "AAPL", Market: tiger.MarketUS, Action: tiger.ActionBuy, OrderType: tiger.OrderTypeLMT, Quantity: 100, Filled: 100, Status: tiger.StatusFilled},
		{ID: 2, Symbol: "MSFT", Market: tiger.MarketUS, Action: tiger.ActionBuy, OrderType: tiger.OrderTypeLMT, Quantity: 50, Status: tiger.StatusPendingCancel},
	}

	if err := g.QueryOrders(context.Background()); err != nil {
		t.Fatalf("QueryOrders returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.orders) != 2 {
		t.Fatalf("expected 2 order events, got %d", len(collector.orders))
	}

	byID := make(map[string]model.OrderData)
	for _, order := range collector.orders {
		byID[order.OrderID] = order
	}
	if byID["1"].Status != model.StatusAllTraded {
		t.Errorf("filled order should be all traded, got %s", byID["1"].Status)
	}
	if byID["2"].Status != model.StatusCancelled {
		t.Errorf("pending cancel should collapse to cancelled, got %s", byID["2"].Status)
	}
}

func TestPushOrder_SynthesizesTradeOnFillIncrease(t *testing.T) {
	g, _, _, _, engine, collector := newTestGateway(t)

	if _, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNASDAQ,
		Direction: model.DirectionLong,
		Type:      model.OrderTypeLimit,
		Volume:    100,
		Price:     188.5,
	}); err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}

	g.onPushOrder(tiger.Order{
		ID:           9001,
		Symbol:       "AAPL",
		Market:       tiger.MarketUS,
		Action:       tiger.ActionBuy,
		OrderType:    tiger.OrderTypeLMT,
		Quantity:     100,
		Filled:       40,
		LimitPrice:   188.5,
		AvgFillPrice: 188.45,
		Status:       tiger.StatusPartiallyFilled,
	})

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()

	if len(collector.trades) != 1 {
		t.Fatalf("expected 1 synthesized trade, got %d", len(collector.trades))
	}
	trade := collector.trades[0]
	if trade.OrderID != "1" {
		t.Errorf("trade should reference the local order id, got %s", trade.OrderID)
	}
	if trade.Volume != 40 || trade.Price != 188.45 {
		t.Errorf("unexpected trade: %+v", trade)
	}
	if trade.TradeID != "9001-40" {
		t.Errorf("trade id should derive from vendor id and fill, got %s", trade.TradeID)
	}

	last := collector.orders[len(collector.orders)-1]
	if last.OrderID != "1" || last.Status != model.StatusPartTraded {
		t.Errorf("push update should reuse local id, got %+v", last)
	}
}

func TestPushOrder_BeforePlaceResponseReusesLocalID(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)

	// 推送在下单应答返回前到达：成交回报不能铸出第二个本地订单号
	mt.placeInside = func() {
		g.onPushOrder(tiger.Order{
			ID:           9001,
			Symbol:       "AAPL",
			Market:       tiger.MarketUS,
			Action:       tiger.ActionBuy,
			OrderType:    tiger.OrderTypeLMT,
			Quantity:     100,
			Filled:       100,
			LimitPrice:   188.5,
			AvgFillPrice: 188.45,
			Status:       tiger.StatusFilled,
		})
	}

	id, err := g.SendOrder(context.Background(), model.OrderRequest{
		Symbol:    "AAPL",
		Exchange:  model.ExchangeNASDAQ,
		Direction: model.DirectionLong,
		Type:      model.OrderTypeLimit,
		Volume:    100,
		Price:     188.5,
	})
	if err != nil {
		t.Fatalf("SendOrder returned error: %v", err)
	}
	if id != "TIGER.1" {
		t.Fatalf("unexpected vt order id: %s", id)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()

	for _, order := range collector.orders {
		if order.OrderID != "1" {
			t.Errorf("all order events should reuse local id 1, got %s", order.OrderID)
		}
	}
	last := collector.orders[len(collector.orders)-1]
	if last.Status != model.StatusAllTraded || last.Traded != 100 {
		t.Errorf("replayed push should complete the order, got %+v", last)
	}

	if len(collector.trades) != 1 {
		t.Fatalf("expected exactly 1 synthesized trade, got %d", len(collector.trades))
	}
	trade := collector.trades[0]
	if trade.OrderID != "1" || trade.Volume != 100 {
		t.Errorf("unexpected trade: %+v", trade)
	}
}

func TestQueryOrders_NoTradeOnFirstSight(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)

	// 重启后首次轮询查到的已成交订单不补发历史成交
	mt.orders = []tiger.Order{
		{ID: 500, Symbol: "AAPL", Market: tiger.MarketUS, Action: tiger.ActionBuy,
			OrderType: tiger.OrderTypeLMT, Quantity: 100, Filled: 100,
			AvgFillPrice: 180, Status: tiger.StatusFilled},
	}
	if err := g.QueryOrders(context.Background()); err != nil {
		t.Fatalf("QueryOrders returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	if len(collector.trades) != 0 {
		t.Fatalf("first sight of a filled order should not synthesize trades, got %+v", collector.trades)
	}
	if len(collector.orders) != 1 || collector.orders[0].Status != model.StatusAllTraded {
		t.Fatalf("expected 1 all-traded order event, got %+v", collector.orders)
	}
	collector.mu.Unlock()

	// 已缓存订单的后续成交增量仍然合成
	mt.orders = []tiger.Order{
		{ID: 600, Symbol: "MSFT", Market: tiger.MarketUS, Action: tiger.ActionBuy,
			OrderType: tiger.OrderTypeLMT, Quantity: 100, Filled: 0,
			Status: tiger.StatusNew},
	}
	if err := g.QueryOrders(context.Background()); err != nil {
		t.Fatalf("QueryOrders returned error: %v", err)
	}
	mt.orders = []tiger.Order{
		{ID: 600, Symbol: "MSFT", Market: tiger.MarketUS, Action: tiger.ActionBuy,
			OrderType: tiger.OrderTypeLMT, Quantity: 100, Filled: 40,
			AvgFillPrice: 410.5, Status: tiger.StatusPartiallyFilled},
	}
	if err := g.QueryOrders(context.Background()); err != nil {
		t.Fatalf("QueryOrders returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.trades) != 1 {
		t.Fatalf("expected 1 delta trade, got %d", len(collector.trades))
	}
	trade := collector.trades[0]
	if trade.OrderID != "600" || trade.Volume != 40 || trade.Price != 410.5 {
		t.Errorf("unexpected delta trade: %+v", trade)
	}
	if trade.TradeID != "600-40" {
		t.Errorf("trade id should be stable across restarts, got %s", trade.TradeID)
	}
}

func TestQueryContracts_ExactFitDoesNotWarn(t *testing.T) {
	g, mt, _, _, engine, collector := newTestGateway(t)
	g.cfg.MaxContractCount = 2

	mt.contracts = map[tiger.Market][]tiger.Contract{
		tiger.MarketUS: {
			{Symbol: "AAPL", Market: tiger.MarketUS, SecType: "STK"},
			{Symbol: "MSFT", Market: tiger.MarketUS, SecType: "STK"},
		},
	}

	if err := g.QueryContracts(context.Background()); err != nil {
		t.Fatalf("QueryContracts returned error: %v", err)
	}

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.contracts) != 2 {
		t.Fatalf("expected 2 contracts, got %d", len(collector.contracts))
	}
	for _, log := range collector.logs {
		if log.Level == "warn" {
			t.Errorf("exact fit should not log a truncation warning: %s", log.Msg)
		}
	}
}

func TestSubscribe_PushFailureFallsBackToPolling(t *testing.T) {
	g, _, mq, mp, engine, collector := newTestGateway(t)
	mp.subErr = tiger.ErrPushUnavailable

	err := g.Subscribe(model.SubscribeRequest{Symbol: "AAPL", Exchange: model.ExchangeNASDAQ})
	if err != nil {
		t.Fatalf("Subscribe should degrade gracefully, got %v", err)
	}

	mq.quotes = []tiger.Quote{{Symbol: "AAPL", LatestPrice: 188.5}}
	g.pollQuotes(context.Background())

	engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.ticks) != 1 || collector.ticks[0].LastPrice != 188.5 {
		t.Errorf("expected polled tick, got %+v", collector.ticks)
	}
}

func TestSubscribe_UnsupportedExchange(t *testing.T) {
	g, _, _, mp, _, _ := newTestGateway(t)

	if err := g.Subscribe(model.SubscribeRequest{Symbol: "VOD", Exchange: model.Exchange("LSE")}); err == nil {
		t.Fatal("expected error for unsupported exchange")
	}
	if len(mp.subscribed) != 0 {
		t.Error("unsupported exchange should not reach the push channel")
	}
}

func TestQueryHistory_ConvertsBars(t *testing.T) {
	g, _, mq, _, _, _ := newTestGateway(t)

	mq.bars = []tiger.Bar{
		{Time: 1724659200000, Open: 187, High: 189, Low: 186.5, Close: 188.5, Volume: 1000, Amount: 188500},
	}

	bars, err := g.QueryHistory(context.Background(), model.HistoryRequest{
		Symbol:   "AAPL",
		Exchange: model.ExchangeNASDAQ,
		Interval: model.IntervalDaily,
		Start:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("QueryHistory returned error: %v", err)
	}

	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	bar := bars[0]
	if bar.ClosePrice != 188.5 || bar.Interval != model.IntervalDaily {
		t.Errorf("unexpected bar: %+v", bar)
	}
	if bar.Datetime.Unix() != 1724659200 {
		t.Errorf("unexpected bar time: %v", bar.Datetime)
	}
}

func TestConnect_MissingCredentials(t *testing.T) {
	engine := event.NewEngine(nil)
	g := New(config.TigerConfig{}, "TIGER", time.Second, engine, nil)

	if err := g.Connect(context.Background()); err == nil {
		t.Fatal("expected error for missing credentials")
	}
}

func TestConnectAndClose_WithDegradedPush(t *testing.T) {
	g, _, _, mp, _, collector := newTestGateway(t)
	mp.startErr = tiger.ErrPushUnavailable

	if err := g.Connect(context.Background()); err != nil {
		t.Fatalf("Connect should tolerate push failure, got %v", err)
	}
	g.Close()

	g.engine.WaitAsync()
	collector.mu.Lock()
	defer collector.mu.Unlock()

	degraded := false
	for _, log := range collector.logs {
		if log.Level == "warn" {
			degraded = true
		}
	}
	if !degraded {
		t.Error("expected warn log event about degraded push channel")
	}
}
