package types

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eurUsdSnapshot() *Pricing {
	return &Pricing{
		Prices: []Price{{
			Instrument: "EUR_USD",
			Bids:       []PriceBucket{{Price: "1.1000", Liquidity: 1000000}},
			Asks:       []PriceBucket{{Price: "1.1002", Liquidity: 1000000}},
			Time:       "2024-01-01T00:00:00.000000000Z",
			Status:     PriceStatusTradeable,
		}},
	}
}

func TestNewTick_EURUSD(t *testing.T) {
	tick, err := NewTick(eurUsdSnapshot())
	require.NoError(t, err)

	assert.Equal(t, "EUR_USD", tick.Instrument)
	assert.True(t, tick.Bid.Equal(decimal.RequireFromString("1.1000")))
	assert.True(t, tick.Ask.Equal(decimal.RequireFromString("1.1002")))
	assert.True(t, tick.Price().Equal(decimal.RequireFromString("1.1001")), "mid=%s", tick.Price())
	assert.True(t, tick.Spread().Equal(decimal.RequireFromString("-0.0002")), "spread=%s", tick.Spread())
	assert.Equal(t, int64(1704067200000), tick.Time)
	assert.Equal(t, int64(1704067200), tick.Seconds())
	assert.True(t, tick.BuyPrice().Equal(tick.Ask))
	assert.True(t, tick.SellPrice().Equal(tick.Bid))
}

func TestTick_DerivedQuantities(t *testing.T) {
	tests := []struct {
		name string
		bid  string
		ask  string
		time string
	}{
		{"crossed", "1.2500", "1.2490", "2024-03-05T10:11:12.999Z"},
		{"jpy", "151.234", "151.250", "2023-12-31T23:59:59.5+01:00"},
		{"wide", "0.5", "0.7", "2024-01-01T00:00:01Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Price{
				Instrument: "X_Y",
				Bids:       []PriceBucket{{Price: tt.bid}},
				Asks:       []PriceBucket{{Price: tt.ask}},
				Time:       tt.time,
			}
			tick, err := p.Tick()
			require.NoError(t, err)

			bid := decimal.RequireFromString(tt.bid)
			ask := decimal.RequireFromString(tt.ask)
			assert.True(t, tick.Price().Equal(bid.Add(ask).Div(decimal.NewFromInt(2))))
			assert.True(t, tick.Spread().Equal(bid.Sub(ask)))
			assert.True(t, tick.BuyPrice().Equal(ask))
			assert.True(t, tick.SellPrice().Equal(bid))
			assert.Equal(t, tick.Time/1000, tick.Seconds())
		})
	}
}

func TestNewTick_Failures(t *testing.T) {
	good := eurUsdSnapshot().Prices[0]

	noBids := good
	noBids.Bids = nil
	noAsks := good
	noAsks.Asks = []PriceBucket{}
	badTime := good
	badTime.Time = "1704067200.000000000"
	badPrice := good
	badPrice.Asks = []PriceBucket{{Price: "n/a"}}

	tests := []struct {
		name    string
		pricing *Pricing
		want    error
	}{
		{"nil snapshot", nil, ErrNoPrices},
		{"no prices", &Pricing{}, ErrNoPrices},
		{"no bids", &Pricing{Prices: []Price{noBids}}, ErrNoBids},
		{"no asks", &Pricing{Prices: []Price{noAsks}}, ErrNoAsks},
		{"bad time", &Pricing{Prices: []Price{badTime}}, ErrBadTime},
		{"bad price", &Pricing{Prices: []Price{badPrice}}, ErrBadPrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTick(tt.pricing)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var derr *DerivationError
			assert.True(t, errors.As(err, &derr))
		})
	}
}

func TestPricing_DecodeWire(t *testing.T) {
	raw := []byte(`{
		"time": "2024-01-01T00:00:00.000000000Z",
		"prices": [{
			"type": "PRICE",
			"instrument": "EUR_USD",
			"time": "2024-01-01T00:00:00.000000000Z",
			"status": "tradeable",
			"tradeable": true,
			"bids": [{"price": "1.1000", "liquidity": 1000000}, {"price": "1.0999", "liquidity": 5000000}],
			"asks": [{"price": "1.1002", "liquidity": 1000000}],
			"closeoutBid": "1.0998",
			"closeoutAsk": "1.1004",
			"quoteHomeConversionFactors": {"positiveUnits": "1.0", "negativeUnits": "1.0"}
		}]
	}`)
	var p Pricing
	require.NoError(t, json.Unmarshal(raw, &p))
	require.Len(t, p.Prices, 1)

	price := p.Prices[0]
	assert.Equal(t, PriceStatusTradeable, price.Status)
	assert.True(t, price.IsTradeable())
	assert.Len(t, price.Bids, 2)
	require.NotNil(t, price.QuoteHomeConversionFactors)
	assert.Equal(t, "1.0", price.QuoteHomeConversionFactors.PositiveUnits)
	assert.Nil(t, price.UnitsAvailable)

	best, ok := price.BestBid()
	assert.True(t, ok)
	assert.Equal(t, "1.1000", best.Price)

	found, ok := p.Find("EUR_USD")
	assert.True(t, ok)
	assert.Equal(t, "1.1004", found.CloseoutAsk)
	_, ok = p.Find("USD_JPY")
	assert.False(t, ok)
}

func TestPricing_UnknownStatusRejected(t *testing.T) {
	raw := []byte(`{"prices":[{"instrument":"EUR_USD","status":"halted","bids":[],"asks":[]}]}`)
	var p Pricing
	assert.Error(t, json.Unmarshal(raw, &p))
}
