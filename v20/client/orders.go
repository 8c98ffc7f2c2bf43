package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/betbot/gov20/v20/types"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFilled 下单请求成功但订单没有成交
var ErrOrderNotFilled = errors.New("订单未成交")

// PlaceOrder 提交市价单
// HTTP 成功不代表成交：调用方需检查 resp.Filled()
func (c *Client) PlaceOrder(ctx context.Context, order types.MarketOrderRequest) (*types.PostOrderResponse, error) {
	resp, err := post[types.PostOrderResponse](ctx, c, c.endpoint(EndpointOrders), types.PostOrderRequest{Order: order})
	if err != nil {
		return nil, fmt.Errorf("提交订单失败: %w", err)
	}

	entry := c.log.WithField("instrument", order.Instrument()).
		WithField("units", order.Units()).
		WithField("last_transaction_id", resp.LastTransactionID)
	if resp.Filled() {
		entry.WithField("price", resp.OrderFillTransaction.Price).Info("市价单已成交")
	} else {
		entry.WithField("reason", resp.CancelReason()).Warn("市价单未成交")
	}
	return resp, nil
}

// PlaceMarketOrder 构造并提交市价单，未成交时返回 ErrOrderNotFilled（同时返回响应）
func (c *Client) PlaceMarketOrder(ctx context.Context, instrument string, units decimal.Decimal) (*types.PostOrderResponse, error) {
	resp, err := c.PlaceOrder(ctx, types.NewMarketOrder(instrument, units))
	if err != nil {
		return nil, err
	}
	if !resp.Filled() {
		if reason := resp.CancelReason(); reason != "" {
			return resp, fmt.Errorf("%w: %s", ErrOrderNotFilled, reason)
		}
		return resp, ErrOrderNotFilled
	}
	return resp, nil
}
