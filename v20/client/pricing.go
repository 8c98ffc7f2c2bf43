package client

import (
	"context"
	"fmt"

	"github.com/betbot/gov20/v20/types"
)

// FetchPricing 获取单个品种的当前报价
func (c *Client) FetchPricing(ctx context.Context, instrument string) (*types.Pricing, error) {
	params := map[string]any{ParamInstruments: instrument}

	pricing, err := get[types.Pricing](ctx, c, c.endpoint(EndpointPricing), params)
	if err != nil {
		return nil, fmt.Errorf("获取报价失败: %w", err)
	}
	return pricing, nil
}

// FetchTick 获取报价并推导 Tick
// 请求失败返回 *RequestError，快照没有可用价格返回 *types.DerivationError
func (c *Client) FetchTick(ctx context.Context, instrument string) (types.Tick, error) {
	pricing, err := c.FetchPricing(ctx, instrument)
	if err != nil {
		return types.Tick{}, err
	}
	return types.NewTick(pricing)
}
