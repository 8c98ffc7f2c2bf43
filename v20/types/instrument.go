package types

import "github.com/shopspring/decimal"

// Instrument 可交易品种的静态定义，Name 唯一
type Instrument struct {
	Name                        string         `json:"name"`
	Type                        InstrumentType `json:"type,omitempty"`
	DisplayName                 string         `json:"displayName"`
	PipLocation                 int32          `json:"pipLocation"`
	DisplayPrecision            int32          `json:"displayPrecision"`
	TradeUnitsPrecision         int32          `json:"tradeUnitsPrecision"`
	MinimumTradeSize            string         `json:"minimumTradeSize"`
	MaximumTrailingStopDistance string         `json:"maximumTrailingStopDistance"`
	MinimumTrailingStopDistance string         `json:"minimumTrailingStopDistance"`
	MaximumPositionSize         string         `json:"maximumPositionSize"`
	MaximumOrderUnits           string         `json:"maximumOrderUnits"`
	MarginRate                  string         `json:"marginRate"`
}

// InstrumentsResponse /instruments 接口返回
type InstrumentsResponse struct {
	Instruments       []Instrument `json:"instruments"`
	LastTransactionID string       `json:"lastTransactionID"`
}

// PipSize 一个 pip 对应的价格变动，10^pipLocation
func (i Instrument) PipSize() decimal.Decimal {
	return decimal.New(1, i.PipLocation)
}

// Pips 把价格差换算成 pip 数
func (i Instrument) Pips(delta decimal.Decimal) decimal.Decimal {
	return delta.Shift(-i.PipLocation)
}

// RoundUnits 按 tradeUnitsPrecision 截断下单数量
func (i Instrument) RoundUnits(units decimal.Decimal) decimal.Decimal {
	return units.Truncate(i.TradeUnitsPrecision)
}
