package tiger

import (
	"context"

	"go.uber.org/zap"
)

// QuoteClient 提供行情快照与历史K线查询接口。
type QuoteClient struct {
	*client
}

// NewQuoteClient 创建行情客户端。
func NewQuoteClient(cfg ClientConfig, logger *zap.Logger) (*QuoteClient, error) {
	c, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &QuoteClient{client: c}, nil
}

// GetQuotes 查询一批标的的实时行情。
func (c *QuoteClient) GetQuotes(ctx context.Context, symbols []string, market Market) ([]Quote, error) {
	params := struct {
		Symbols []string `json:"symbols"`
		Market  Market   `json:"market"`
	}{
		Symbols: symbols,
		Market:  market,
	}

	var result struct {
		Items []Quote `json:"items"`
	}
	if err := c.call(ctx, methodQuote, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetBars 查询历史K线。
func (c *QuoteClient) GetBars(ctx context.Context, params BarParams) ([]Bar, error) {
	var result struct {
		Items []Bar `json:"items"`
	}
	if err := c.call(ctx, methodKline, params, &result); err != nil {
		return nil, err
	}
	return result.Items, nil
}
