package v20test

import (
	"time"

	"github.com/betbot/gov20/v20/types"
	"github.com/shopspring/decimal"
)

// DemoInstruments 演示用的品种定义
func DemoInstruments() []types.Instrument {
	return []types.Instrument{
		{
			Name: "EUR_USD", Type: types.InstrumentTypeCurrency, DisplayName: "EUR/USD",
			PipLocation: -4, DisplayPrecision: 5, TradeUnitsPrecision: 0,
			MinimumTradeSize: "1", MaximumTrailingStopDistance: "1.00000", MinimumTrailingStopDistance: "0.00050",
			MaximumPositionSize: "0", MaximumOrderUnits: "100000000", MarginRate: "0.0333",
		},
		{
			Name: "USD_JPY", Type: types.InstrumentTypeCurrency, DisplayName: "USD/JPY",
			PipLocation: -2, DisplayPrecision: 3, TradeUnitsPrecision: 0,
			MinimumTradeSize: "1", MaximumTrailingStopDistance: "100.000", MinimumTrailingStopDistance: "0.050",
			MaximumPositionSize: "0", MaximumOrderUnits: "100000000", MarginRate: "0.04",
		},
		{
			Name: "XAU_USD", Type: types.InstrumentTypeMetal, DisplayName: "Gold",
			PipLocation: -2, DisplayPrecision: 3, TradeUnitsPrecision: 0,
			MinimumTradeSize: "1", MaximumTrailingStopDistance: "1000.000", MinimumTrailingStopDistance: "0.050",
			MaximumPositionSize: "0", MaximumOrderUnits: "5000", MarginRate: "0.05",
		},
	}
}

// DemoPrice 构造一个可交易的单档报价
func DemoPrice(instrument, bid, ask string, at time.Time) types.Price {
	return types.Price{
		Type:        "PRICE",
		Instrument:  instrument,
		Time:        at.UTC().Format(time.RFC3339Nano),
		Status:      types.PriceStatusTradeable,
		Tradeable:   true,
		Bids:        []types.PriceBucket{{Price: bid, Liquidity: 1000000}},
		Asks:        []types.PriceBucket{{Price: ask, Liquidity: 1000000}},
		CloseoutBid: bid,
		CloseoutAsk: ask,
	}
}

// SeedDemo 填充演示数据
func (s *Server) SeedDemo() {
	now := time.Now()
	s.AddInstruments(DemoInstruments()...)
	s.SetPrice(DemoPrice("EUR_USD", "1.10000", "1.10020", now))
	s.SetPrice(DemoPrice("USD_JPY", "151.234", "151.250", now))
	s.SetPrice(DemoPrice("XAU_USD", "2031.150", "2031.550", now))
	s.SetLastTransactionID(42)
}

// Nudge 把某个品种的报价整体平移 delta（点差不变），并刷新报价时间。
// 品种没有报价时返回 false。
func (s *Server) Nudge(instrument string, delta decimal.Decimal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[instrument]
	if !ok {
		return false
	}
	shift := func(buckets []types.PriceBucket) []types.PriceBucket {
		out := make([]types.PriceBucket, len(buckets))
		for i, b := range buckets {
			out[i] = b
			if v, err := decimal.NewFromString(b.Price); err == nil {
				out[i].Price = v.Add(delta).String()
			}
		}
		return out
	}
	p.Bids = shift(p.Bids)
	p.Asks = shift(p.Asks)
	if len(p.Bids) > 0 {
		p.CloseoutBid = p.Bids[0].Price
	}
	if len(p.Asks) > 0 {
		p.CloseoutAsk = p.Asks[0].Price
	}
	p.Time = time.Now().UTC().Format(time.RFC3339Nano)
	s.prices[instrument] = p
	return true
}
