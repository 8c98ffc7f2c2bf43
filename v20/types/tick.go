package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoPrices = errors.New("报价快照中没有价格")
	ErrNoBids   = errors.New("报价没有买价档位")
	ErrNoAsks   = errors.New("报价没有卖价档位")
	ErrBadTime  = errors.New("报价时间不是合法的 RFC3339")
	ErrBadPrice = errors.New("报价价格不是合法的小数")
)

// DerivationError 从报价快照推导 Tick 失败
type DerivationError struct {
	Instrument string
	Err        error
	Detail     string
}

func (e *DerivationError) Error() string {
	msg := "推导 tick 失败"
	if e.Instrument != "" {
		msg += " [" + e.Instrument + "]"
	}
	msg += ": " + e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DerivationError) Unwrap() error { return e.Err }

// Tick 由报价快照的最优一档得到的行情点
// Time 为毫秒时间戳
type Tick struct {
	Instrument string
	Time       int64
	Bid        decimal.Decimal
	Ask        decimal.Decimal
}

var two = decimal.NewFromInt(2)

// NewTick 使用快照中的第一个报价构造 Tick
func NewTick(p *Pricing) (Tick, error) {
	if p == nil || len(p.Prices) == 0 {
		return Tick{}, &DerivationError{Err: ErrNoPrices}
	}
	return p.Prices[0].Tick()
}

// Tick 使用 bids[0] / asks[0] 构造 Tick
func (p *Price) Tick() (Tick, error) {
	bid, ok := p.BestBid()
	if !ok {
		return Tick{}, &DerivationError{Instrument: p.Instrument, Err: ErrNoBids}
	}
	ask, ok := p.BestAsk()
	if !ok {
		return Tick{}, &DerivationError{Instrument: p.Instrument, Err: ErrNoAsks}
	}

	ts, err := time.Parse(time.RFC3339Nano, p.Time)
	if err != nil {
		return Tick{}, &DerivationError{Instrument: p.Instrument, Err: ErrBadTime, Detail: fmt.Sprintf("%q", p.Time)}
	}
	bidPx, err := decimal.NewFromString(bid.Price)
	if err != nil {
		return Tick{}, &DerivationError{Instrument: p.Instrument, Err: ErrBadPrice, Detail: fmt.Sprintf("bid %q", bid.Price)}
	}
	askPx, err := decimal.NewFromString(ask.Price)
	if err != nil {
		return Tick{}, &DerivationError{Instrument: p.Instrument, Err: ErrBadPrice, Detail: fmt.Sprintf("ask %q", ask.Price)}
	}

	return Tick{
		Instrument: p.Instrument,
		Time:       ts.UnixMilli(),
		Bid:        bidPx,
		Ask:        askPx,
	}, nil
}

// Seconds 秒级时间戳（毫秒整除 1000）
func (t Tick) Seconds() int64 {
	return t.Time / 1000
}

// Timestamp 转为 time.Time（UTC）
func (t Tick) Timestamp() time.Time {
	return time.UnixMilli(t.Time).UTC()
}

// Price 中间价 (bid+ask)/2
func (t Tick) Price() decimal.Decimal {
	return t.Bid.Add(t.Ask).Div(two)
}

// Spread 返回 bid-ask，正常市场下为负数。
// 调用方不要假设它为正。
func (t Tick) Spread() decimal.Decimal {
	return t.Bid.Sub(t.Ask)
}

// BuyPrice 买入成交价（ask）
func (t Tick) BuyPrice() decimal.Decimal { return t.Ask }

// SellPrice 卖出成交价（bid）
func (t Tick) SellPrice() decimal.Decimal { return t.Bid }
