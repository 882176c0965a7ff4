package tiger

import (
	"context"

	"go.uber.org/zap"
)

// TradeClient 提供下单、撤单与账户查询接口。
type TradeClient struct {
	*client
}

// NewTradeClient 创建交易客户端。
func NewTradeClient(cfg ClientConfig, logger *zap.Logger) (*TradeClient, error) {
	c, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &TradeClient{client: c}, nil
}

// Account 返回配置的账户号。
func (c *TradeClient) Account() string {
	return c.cfg.Account
}

// PlaceOrder 提交委托并返回老虎侧订单号。
func (c *TradeClient) PlaceOrder(ctx context.Context, params OrderParams) (int64, error) {
	var result struct {
		ID int64 `json:"id"`
	}
	if err := c.call(ctx, methodPlaceOrder, params, &result); err != nil {
		return 0, err
	}
	return result.ID, nil
}

// CancelOrder 按老虎侧订单号撤单。
func (c *TradeClient) CancelOrder(ctx context.Context, orderID int64) error {
	params := struct {
		Account string `json:"account"`
		ID      int64  `json:"id"`
	}{
		Account: c.cfg.Account,
		ID:      orderID,
	}
	return c.call(ctx, methodCancelOrder, params, nil)
}

// GetOrders 查询当日订单。
func (c *TradeClient) GetOrders(ctx context.Context) ([]Order, error) {
	params := struct {
		Account string `json:"account"`
	}{Account: c.cfg.Account}

	var result struct {
		Items []Order `json:"items"`
	}
	if err := c.call(ctx, methodOrders, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetAssets 查询账户资产。
func (c *TradeClient) GetAssets(ctx context.Context) ([]Asset, error) {
	params := struct {
		Account string `json:"account"`
	}{Account: c.cfg.Account}

	var result struct {
		Items []Asset `json:"items"`
	}
	if err := c.call(ctx, methodAssets, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetPositions 查询持仓。
func (c *TradeClient) GetPositions(ctx context.Context) ([]Position, error) {
	params := struct {
		Account string `json:"account"`
	}{Account: c.cfg.Account}

	var result struct {
		Items []Position `json:"items"`
	}
	if err := c.call(ctx, methodPositions, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetContracts 查询指定市场的可交易合约列表。
func (c *TradeClient) GetContracts(ctx context.Context, market Market) ([]Contract, error) {
	params := struct {
		Account string `json:"account"`
		Market  Market `json:"market"`
	}{
		Account: c.cfg.Account,
		Market:  market,
	}

	var result struct {
		Items []Contract `json:"items"`
	}
	if err := c.call(ctx, methodContracts, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}
