package client

import (
	"context"
	"fmt"

	"github.com/betbot/gov20/pkg/cache"
	"github.com/betbot/gov20/v20/types"
)

// InstrumentCache 品种名 -> 品种定义，只增量合并，不清空不淘汰
type InstrumentCache struct {
	store *cache.Store[string, types.Instrument]
}

func newInstrumentCache() *InstrumentCache {
	return &InstrumentCache{store: cache.NewStore[string, types.Instrument]()}
}

func (ic *InstrumentCache) merge(list []types.Instrument) {
	cache.MergeFunc(ic.store, list, func(i types.Instrument) string { return i.Name })
}

// Get 按名称查找
func (ic *InstrumentCache) Get(name string) (types.Instrument, bool) {
	return ic.store.Get(name)
}

// All 当前缓存的拷贝
func (ic *InstrumentCache) All() map[string]types.Instrument {
	return ic.store.Snapshot()
}

// Len 缓存条目数
func (ic *InstrumentCache) Len() int {
	return ic.store.Size()
}

// FetchInstruments 获取账户可交易品种；names 为空时返回全部
// 成功后把结果合并进品种缓存
func (c *Client) FetchInstruments(ctx context.Context, names ...string) (*types.InstrumentsResponse, error) {
	var params map[string]any
	if len(names) > 0 {
		params = map[string]any{ParamInstruments: names}
	}

	resp, err := get[types.InstrumentsResponse](ctx, c, c.endpoint(EndpointInstruments), params)
	if err != nil {
		return nil, fmt.Errorf("获取品种列表失败: %w", err)
	}

	c.instruments.merge(resp.Instruments)
	c.log.WithField("count", len(resp.Instruments)).
		WithField("cached", c.instruments.Len()).
		Debug("品种缓存已合并")
	return resp, nil
}

// Instrument 从缓存中读取品种定义
func (c *Client) Instrument(name string) (types.Instrument, bool) {
	return c.instruments.Get(name)
}

// Instruments 缓存中全部品种的拷贝
func (c *Client) Instruments() map[string]types.Instrument {
	return c.instruments.All()
}

// InstrumentCache 返回客户端持有的品种缓存
func (c *Client) InstrumentCache() *InstrumentCache {
	return c.instruments
}
