package types

import "fmt"

// enumTable 枚举值与线上文本的双向映射
type enumTable[T ~int] struct {
	kind     string
	toWire   map[T]string
	fromWire map[string]T
}

func newEnumTable[T ~int](kind string, m map[T]string) enumTable[T] {
	rev := make(map[string]T, len(m))
	for k, v := range m {
		rev[v] = k
	}
	return enumTable[T]{kind: kind, toWire: m, fromWire: rev}
}

func (t enumTable[T]) marshal(v T) ([]byte, error) {
	s, ok := t.toWire[v]
	if !ok {
		return nil, fmt.Errorf("未知的 %s: %d", t.kind, v)
	}
	return []byte(s), nil
}

func (t enumTable[T]) unmarshal(b []byte) (T, error) {
	v, ok := t.fromWire[string(b)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("未知的 %s: %q", t.kind, string(b))
	}
	return v, nil
}

func (t enumTable[T]) name(v T) string {
	if s, ok := t.toWire[v]; ok {
		return s
	}
	return fmt.Sprintf("%s(%d)", t.kind, v)
}

// TimeInForce 订单有效期策略
type TimeInForce int

const (
	TimeInForceFOK TimeInForce = iota + 1 // Fill or Kill - 全部成交或全部取消
	TimeInForceIOC                        // Immediate or Cancel - 立即成交，剩余取消
	TimeInForceGTC                        // Good Till Cancel
	TimeInForceGTD                        // Good Till Date
	TimeInForceGFD                        // Good For Day
)

var timeInForceTable = newEnumTable("timeInForce", map[TimeInForce]string{
	TimeInForceFOK: "FOK",
	TimeInForceIOC: "IOC",
	TimeInForceGTC: "GTC",
	TimeInForceGTD: "GTD",
	TimeInForceGFD: "GFD",
})

func (t TimeInForce) String() string                { return timeInForceTable.name(t) }
func (t TimeInForce) MarshalText() ([]byte, error)  { return timeInForceTable.marshal(t) }
func (t *TimeInForce) UnmarshalText(b []byte) error { return unmarshalEnum(timeInForceTable, t, b) }

// OrderType 订单类型
type OrderType int

const (
	OrderTypeMarket OrderType = iota + 1
	OrderTypeLimit
	OrderTypeStop
	OrderTypeMarketIfTouched
)

var orderTypeTable = newEnumTable("orderType", map[OrderType]string{
	OrderTypeMarket:          "MARKET",
	OrderTypeLimit:           "LIMIT",
	OrderTypeStop:            "STOP",
	OrderTypeMarketIfTouched: "MARKET_IF_TOUCHED",
})

func (t OrderType) String() string                { return orderTypeTable.name(t) }
func (t OrderType) MarshalText() ([]byte, error)  { return orderTypeTable.marshal(t) }
func (t *OrderType) UnmarshalText(b []byte) error { return unmarshalEnum(orderTypeTable, t, b) }

// PositionFill 成交后对持仓的处理方式
type PositionFill int

const (
	PositionFillDefault PositionFill = iota + 1
	PositionFillOpenOnly
	PositionFillReduceFirst
	PositionFillReduceOnly
)

var positionFillTable = newEnumTable("positionFill", map[PositionFill]string{
	PositionFillDefault:     "DEFAULT",
	PositionFillOpenOnly:    "OPEN_ONLY",
	PositionFillReduceFirst: "REDUCE_FIRST",
	PositionFillReduceOnly:  "REDUCE_ONLY",
})

func (p PositionFill) String() string                { return positionFillTable.name(p) }
func (p PositionFill) MarshalText() ([]byte, error)  { return positionFillTable.marshal(p) }
func (p *PositionFill) UnmarshalText(b []byte) error { return unmarshalEnum(positionFillTable, p, b) }

// PriceStatus 报价状态
type PriceStatus int

const (
	PriceStatusTradeable PriceStatus = iota + 1
	PriceStatusNonTradeable
	PriceStatusInvalid
)

var priceStatusTable = newEnumTable("priceStatus", map[PriceStatus]string{
	PriceStatusTradeable:    "tradeable",
	PriceStatusNonTradeable: "non-tradeable",
	PriceStatusInvalid:      "invalid",
})

func (s PriceStatus) String() string                { return priceStatusTable.name(s) }
func (s PriceStatus) MarshalText() ([]byte, error)  { return priceStatusTable.marshal(s) }
func (s *PriceStatus) UnmarshalText(b []byte) error { return unmarshalEnum(priceStatusTable, s, b) }

// InstrumentType 品种类型
type InstrumentType int

const (
	InstrumentTypeCurrency InstrumentType = iota + 1
	InstrumentTypeCFD
	InstrumentTypeMetal
)

var instrumentTypeTable = newEnumTable("instrumentType", map[InstrumentType]string{
	InstrumentTypeCurrency: "CURRENCY",
	InstrumentTypeCFD:      "CFD",
	InstrumentTypeMetal:    "METAL",
})

func (t InstrumentType) String() string               { return instrumentTypeTable.name(t) }
func (t InstrumentType) MarshalText() ([]byte, error) { return instrumentTypeTable.marshal(t) }
func (t *InstrumentType) UnmarshalText(b []byte) error {
	return unmarshalEnum(instrumentTypeTable, t, b)
}

func unmarshalEnum[T ~int](table enumTable[T], dst *T, b []byte) error {
	v, err := table.unmarshal(b)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
