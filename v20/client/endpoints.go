package client

import (
	"fmt"
	"net/url"
)

// API 端点（账户 id 与品种名会做 PathEscape）
const (
	EndpointInstruments   = "/v3/accounts/%s/instruments"
	EndpointPricing       = "/v3/accounts/%s/pricing"
	EndpointPosition      = "/v3/accounts/%s/positions/%s"
	EndpointOpenPositions = "/v3/accounts/%s/openPositions"
	EndpointOrders        = "/v3/accounts/%s/orders"
)

// 查询参数
const (
	ParamInstruments = "instruments"
)

func (c *Client) endpoint(format string, parts ...string) string {
	args := make([]any, 0, len(parts)+1)
	args = append(args, url.PathEscape(c.accountID))
	for _, p := range parts {
		args = append(args, url.PathEscape(p))
	}
	return fmt.Sprintf(format, args...)
}
