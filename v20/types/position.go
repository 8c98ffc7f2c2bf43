package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Position 单个品种的持仓汇总
// Long / Short 总是存在，没有敞口的一侧为 EmptyPositionSide()
type Position struct {
	Instrument   string       `json:"instrument"`
	PL           string       `json:"pl"`
	UnrealizedPL string       `json:"unrealizedPL"`
	ResettablePL string       `json:"resettablePL"`
	Commission   string       `json:"commission,omitempty"`
	Long         PositionSide `json:"long"`
	Short        PositionSide `json:"short"`
}

// PositionSide 持仓的多头或空头一侧
type PositionSide struct {
	Units        string   `json:"units"`
	AveragePrice string   `json:"averagePrice,omitempty"`
	TradeIDs     []string `json:"tradeIDs,omitempty"`
	PL           string   `json:"pl"`
	UnrealizedPL string   `json:"unrealizedPL"`
	ResettablePL string   `json:"resettablePL"`
}

// PositionResponse /positions/{instrument} 接口返回
type PositionResponse struct {
	Position          Position `json:"position"`
	LastTransactionID string   `json:"lastTransactionID"`
}

// PositionsResponse /openPositions 接口返回
type PositionsResponse struct {
	Positions         []Position `json:"positions"`
	LastTransactionID string     `json:"lastTransactionID"`
}

// EmptyPositionSide 零敞口的一侧
func EmptyPositionSide() PositionSide {
	return PositionSide{
		Units:        "0",
		PL:           "0",
		UnrealizedPL: "0",
		ResettablePL: "0",
	}
}

// UnmarshalJSON 缺失的一侧或缺失的数量/盈亏字段补成 "0"
func (p *Position) UnmarshalJSON(b []byte) error {
	type alias Position
	var raw struct {
		alias
		Long  *PositionSide `json:"long"`
		Short *PositionSide `json:"short"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = Position(raw.alias)
	p.Long = normalizeSide(raw.Long)
	p.Short = normalizeSide(raw.Short)
	return nil
}

func normalizeSide(s *PositionSide) PositionSide {
	if s == nil {
		return EmptyPositionSide()
	}
	out := *s
	for _, f := range []*string{&out.Units, &out.PL, &out.UnrealizedPL, &out.ResettablePL} {
		if *f == "" {
			*f = "0"
		}
	}
	return out
}

// IsEmpty 该侧是否没有敞口
func (s PositionSide) IsEmpty() bool {
	u, err := decimal.NewFromString(s.Units)
	return err != nil || u.IsZero()
}

// NetUnits 多空合计数量（空头 units 为负）
func (p *Position) NetUnits() (decimal.Decimal, error) {
	long, err := decimal.NewFromString(p.Long.Units)
	if err != nil {
		return decimal.Zero, err
	}
	short, err := decimal.NewFromString(p.Short.Units)
	if err != nil {
		return decimal.Zero, err
	}
	return long.Add(short), nil
}
