package types

// Pricing 报价快照（/pricing 接口返回）
type Pricing struct {
	Prices []Price `json:"prices"`
	Time   string  `json:"time,omitempty"`
}

// Price 单个品种的报价
// bids/asks 按优先级排列，下标 0 为最优价
type Price struct {
	Type        string        `json:"type,omitempty"` // "PRICE"
	Instrument  string        `json:"instrument"`
	Time        string        `json:"time"` // RFC3339
	Status      PriceStatus   `json:"status,omitempty"`
	Tradeable   bool          `json:"tradeable"`
	Bids        []PriceBucket `json:"bids"`
	Asks        []PriceBucket `json:"asks"`
	CloseoutBid string        `json:"closeoutBid,omitempty"`
	CloseoutAsk string        `json:"closeoutAsk,omitempty"`

	QuoteHomeConversionFactors *QuoteHomeConversionFactors `json:"quoteHomeConversionFactors,omitempty"`
	UnitsAvailable             *UnitsAvailable             `json:"unitsAvailable,omitempty"`
}

// PriceBucket 一档报价
type PriceBucket struct {
	Price     string `json:"price"`
	Liquidity int64  `json:"liquidity"`
}

// QuoteHomeConversionFactors 报价货币到账户货币的换算因子
type QuoteHomeConversionFactors struct {
	PositiveUnits string `json:"positiveUnits"`
	NegativeUnits string `json:"negativeUnits"`
}

// UnitsAvailable 各种 positionFill 策略下可下单的数量
type UnitsAvailable struct {
	Default     UnitsAvailableDetails `json:"default"`
	ReduceFirst UnitsAvailableDetails `json:"reduceFirst"`
	ReduceOnly  UnitsAvailableDetails `json:"reduceOnly"`
	OpenOnly    UnitsAvailableDetails `json:"openOnly"`
}

// UnitsAvailableDetails 多空两个方向的可用数量
type UnitsAvailableDetails struct {
	Long  string `json:"long"`
	Short string `json:"short"`
}

// IsTradeable 报价是否可交易
func (p *Price) IsTradeable() bool {
	if p.Status != 0 {
		return p.Status == PriceStatusTradeable
	}
	return p.Tradeable
}

// BestBid 最优买价
func (p *Price) BestBid() (PriceBucket, bool) {
	if len(p.Bids) == 0 {
		return PriceBucket{}, false
	}
	return p.Bids[0], true
}

// BestAsk 最优卖价
func (p *Price) BestAsk() (PriceBucket, bool) {
	if len(p.Asks) == 0 {
		return PriceBucket{}, false
	}
	return p.Asks[0], true
}

// Find 按品种名查找报价
func (p *Pricing) Find(instrument string) (*Price, bool) {
	for i := range p.Prices {
		if p.Prices[i].Instrument == instrument {
			return &p.Prices[i], true
		}
	}
	return nil, false
}
