package client

import (
	"context"
	"fmt"

	"github.com/betbot/gov20/v20/types"
)

// FetchPosition 获取单个品种的持仓
func (c *Client) FetchPosition(ctx context.Context, instrument string) (*types.PositionResponse, error) {
	resp, err := get[types.PositionResponse](ctx, c, c.endpoint(EndpointPosition, instrument), nil)
	if err != nil {
		return nil, fmt.Errorf("获取持仓失败: %w", err)
	}
	return resp, nil
}

// FetchOpenPositions 获取账户全部未平仓持仓
func (c *Client) FetchOpenPositions(ctx context.Context) (*types.PositionsResponse, error) {
	resp, err := get[types.PositionsResponse](ctx, c, c.endpoint(EndpointOpenPositions), nil)
	if err != nil {
		return nil, fmt.Errorf("获取未平仓持仓失败: %w", err)
	}
	return resp, nil
}
