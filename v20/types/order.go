package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketOrderRequest 市价单请求
// 只能通过 NewMarketOrder 构造：timeInForce/type/positionFill 固定为 FOK/MARKET/DEFAULT
type MarketOrderRequest struct {
	units        string
	instrument   string
	timeInForce  TimeInForce
	orderType    OrderType
	positionFill PositionFill
}

// NewMarketOrder 创建市价单，units 的符号表示方向（正买负卖）
func NewMarketOrder(instrument string, units decimal.Decimal) MarketOrderRequest {
	return MarketOrderRequest{
		units:        units.String(),
		instrument:   instrument,
		timeInForce:  TimeInForceFOK,
		orderType:    OrderTypeMarket,
		positionFill: PositionFillDefault,
	}
}

func (o MarketOrderRequest) Units() string              { return o.units }
func (o MarketOrderRequest) Instrument() string         { return o.instrument }
func (o MarketOrderRequest) TimeInForce() TimeInForce   { return o.timeInForce }
func (o MarketOrderRequest) Type() OrderType            { return o.orderType }
func (o MarketOrderRequest) PositionFill() PositionFill { return o.positionFill }

// marketOrderWire 线上格式
type marketOrderWire struct {
	Units        string       `json:"units"`
	Instrument   string       `json:"instrument"`
	TimeInForce  TimeInForce  `json:"timeInForce"`
	Type         OrderType    `json:"type"`
	PositionFill PositionFill `json:"positionFill"`
}

func (o MarketOrderRequest) MarshalJSON() ([]byte, error) {
	if o.orderType == 0 {
		return nil, fmt.Errorf("市价单未通过 NewMarketOrder 构造")
	}
	return json.Marshal(marketOrderWire{
		Units:        o.units,
		Instrument:   o.instrument,
		TimeInForce:  o.timeInForce,
		Type:         o.orderType,
		PositionFill: o.positionFill,
	})
}

func (o *MarketOrderRequest) UnmarshalJSON(b []byte) error {
	var w marketOrderWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if w.Type != OrderTypeMarket {
		return fmt.Errorf("不是市价单: %s", w.Type)
	}
	*o = MarketOrderRequest{
		units:        w.Units,
		instrument:   w.Instrument,
		timeInForce:  w.TimeInForce,
		orderType:    w.Type,
		positionFill: w.PositionFill,
	}
	return nil
}

// PostOrderRequest POST /orders 请求体
type PostOrderRequest struct {
	Order MarketOrderRequest `json:"order"`
}

// TransactionType 交易流水类型（开放集合，服务端可能新增）
type TransactionType string

const (
	TransactionMarketOrder       TransactionType = "MARKET_ORDER"
	TransactionMarketOrderReject TransactionType = "MARKET_ORDER_REJECT"
	TransactionOrderFill         TransactionType = "ORDER_FILL"
	TransactionOrderCancel       TransactionType = "ORDER_CANCEL"
)

// Transaction 交易流水公共字段
type Transaction struct {
	ID        string          `json:"id"`
	Time      string          `json:"time"`
	UserID    int64           `json:"userID"`
	AccountID string          `json:"accountID"`
	BatchID   string          `json:"batchID"`
	RequestID string          `json:"requestID,omitempty"`
	Type      TransactionType `json:"type"`
}

// OrderCreateTransaction 订单创建流水
type OrderCreateTransaction struct {
	Transaction
	Instrument   string `json:"instrument"`
	Units        string `json:"units"`
	TimeInForce  string `json:"timeInForce"`
	PositionFill string `json:"positionFill"`
	Reason       string `json:"reason"`
}

// OrderCancelTransaction 订单取消流水（FOK 未成交时出现）
type OrderCancelTransaction struct {
	Transaction
	OrderID string `json:"orderID"`
	Reason  string `json:"reason"`
}

// OrderFillTransaction 订单成交流水
type OrderFillTransaction struct {
	Transaction
	OrderID        string        `json:"orderID"`
	Instrument     string        `json:"instrument"`
	Units          string        `json:"units"`
	Price          string        `json:"price,omitempty"`
	FullVWAP       string        `json:"fullVWAP,omitempty"`
	Reason         string        `json:"reason"`
	PL             string        `json:"pl"`
	Financing      string        `json:"financing"`
	Commission     string        `json:"commission"`
	AccountBalance string        `json:"accountBalance"`
	TradeOpened    *TradeOpen    `json:"tradeOpened,omitempty"`
	TradesClosed   []TradeReduce `json:"tradesClosed,omitempty"`
	TradeReduced   *TradeReduce  `json:"tradeReduced,omitempty"`
}

// TradeOpen 成交开出的新交易
type TradeOpen struct {
	TradeID string `json:"tradeID"`
	Units   string `json:"units"`
	Price   string `json:"price,omitempty"`
}

// TradeReduce 成交平掉或减少的交易
type TradeReduce struct {
	TradeID    string `json:"tradeID"`
	Units      string `json:"units"`
	Price      string `json:"price,omitempty"`
	RealizedPL string `json:"realizedPL"`
}

// PostOrderResponse POST /orders 返回
// 没有 OrderFillTransaction 说明订单没有成交（即使 HTTP 返回 2xx）
type PostOrderResponse struct {
	OrderCreateTransaction *OrderCreateTransaction `json:"orderCreateTransaction,omitempty"`
	OrderFillTransaction   *OrderFillTransaction   `json:"orderFillTransaction,omitempty"`
	OrderCancelTransaction *OrderCancelTransaction `json:"orderCancelTransaction,omitempty"`
	RelatedTransactionIDs  []string                `json:"relatedTransactionIDs,omitempty"`
	LastTransactionID      string                  `json:"lastTransactionID"`
}

// Filled 订单是否已成交
func (r *PostOrderResponse) Filled() bool {
	return r != nil && r.OrderFillTransaction != nil
}

// CancelReason 未成交时的取消原因
func (r *PostOrderResponse) CancelReason() string {
	if r == nil || r.OrderCancelTransaction == nil {
		return ""
	}
	return r.OrderCancelTransaction.Reason
}
