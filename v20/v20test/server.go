// Package v20test 提供一个基于 gin 的内存版 v20 REST 服务，用于测试与演示。
package v20test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/betbot/gov20/v20/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Request 服务端收到的请求记录
type Request struct {
	Method        string
	Path          string
	Query         map[string][]string
	Authorization string
	RequestID     string
	Body          []byte
}

type override struct {
	status int
	body   string
}

// Server 内存版 v20 服务
type Server struct {
	*httptest.Server

	AccountID string
	Token     string

	mu          sync.Mutex
	instruments map[string]types.Instrument
	prices      map[string]types.Price
	positions   map[string]types.Position
	overrides   map[string]override
	requests    []Request
	lastTxID    int64
	orderResult func(order types.MarketOrderRequest) (int, any)
}

// NewServer 启动服务，调用方负责 Close
func NewServer(accountID, token string) *Server {
	s := &Server{
		AccountID:   accountID,
		Token:       token,
		instruments: make(map[string]types.Instrument),
		prices:      make(map[string]types.Price),
		positions:   make(map[string]types.Position),
		overrides:   make(map[string]override),
	}
	s.Server = httptest.NewServer(s.Router())
	return s
}

// Router 构建 gin 路由
func (s *Server) Router() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.authorize, s.override)

	acct := r.Group("/v3/accounts/:accountID", s.checkAccount)
	acct.GET("/instruments", s.handleInstruments)
	acct.GET("/pricing", s.handlePricing)
	acct.GET("/positions/:instrument", s.handlePosition)
	acct.GET("/openPositions", s.handleOpenPositions)
	acct.POST("/orders", s.handleOrders)
	return r
}

// AddInstruments 添加或覆盖品种定义
func (s *Server) AddInstruments(list ...types.Instrument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range list {
		s.instruments[inst.Name] = inst
	}
}

// SetPrice 设置品种当前报价
func (s *Server) SetPrice(p types.Price) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[p.Instrument] = p
}

// SetPosition 设置品种持仓
func (s *Server) SetPosition(p types.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[p.Instrument] = p
}

// SetLastTransactionID 设置流水水位
func (s *Server) SetLastTransactionID(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastTxID = id
}

// SetOrderResult 自定义下单结果；fn 返回状态码与响应体
func (s *Server) SetOrderResult(fn func(order types.MarketOrderRequest) (int, any)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderResult = fn
}

// Respond 固定某个 "METHOD /path" 的响应（原样返回 body），直到 ClearResponds
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[method+" "+path] = override{status: status, body: body}
}

// ClearResponds 清除所有固定响应
func (s *Server) ClearResponds() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]override)
}

// Requests 已收到请求的拷贝
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest 最后一个请求
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Query:         c.Request.URL.Query(),
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
		Body:          body,
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) authorize(c *gin.Context) {
	if s.Token != "" && c.GetHeader("Authorization") != "Bearer "+s.Token {
		abort(c, http.StatusUnauthorized, "", "Insufficient authorization to perform request.")
		return
	}
	c.Next()
}

func (s *Server) override(c *gin.Context) {
	s.mu.Lock()
	o, ok := s.overrides[c.Request.Method+" "+c.Request.URL.Path]
	s.mu.Unlock()
	if ok {
		c.Data(o.status, "application/json", []byte(o.body))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) checkAccount(c *gin.Context) {
	if c.Param("accountID") != s.AccountID {
		abort(c, http.StatusForbidden, "INVALID_ACCOUNT", "The account specified is not accessible.")
		return
	}
	c.Next()
}

func (s *Server) handleInstruments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var list []types.Instrument
	if filter := c.Query("instruments"); filter != "" {
		for _, name := range strings.Split(filter, ",") {
			if inst, ok := s.instruments[name]; ok {
				list = append(list, inst)
			}
		}
	} else {
		for _, inst := range s.instruments {
			list = append(list, inst)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	c.JSON(http.StatusOK, types.InstrumentsResponse{
		Instruments:       list,
		LastTransactionID: s.txID(),
	})
}

func (s *Server) handlePricing(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Query("instruments")
	if name == "" {
		abort(c, http.StatusBadRequest, "", "Invalid value specified for 'instruments'")
		return
	}
	var prices []types.Price
	for _, n := range strings.Split(name, ",") {
		p, ok := s.prices[n]
		if !ok {
			abort(c, http.StatusBadRequest, "", fmt.Sprintf("Invalid value specified for 'instruments': %s", n))
			return
		}
		prices = append(prices, p)
	}
	c.JSON(http.StatusOK, types.Pricing{Prices: prices, Time: time.Now().UTC().Format(time.RFC3339Nano)})
}

func (s *Server) handlePosition(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := c.Param("instrument")
	pos, ok := s.positions[name]
	if !ok {
		if _, known := s.instruments[name]; !known {
			abort(c, http.StatusNotFound, "", fmt.Sprintf("Invalid value specified for 'instrument': %s", name))
			return
		}
		pos = types.Position{Instrument: name, PL: "0", UnrealizedPL: "0", ResettablePL: "0",
			Long: types.EmptyPositionSide(), Short: types.EmptyPositionSide()}
	}
	c.JSON(http.StatusOK, types.PositionResponse{Position: pos, LastTransactionID: s.txID()})
}

func (s *Server) handleOpenPositions(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]types.Position, 0, len(s.positions))
	for _, p := range s.positions {
		if p.Long.IsEmpty() && p.Short.IsEmpty() {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Instrument < list[j].Instrument })
	c.JSON(http.StatusOK, types.PositionsResponse{Positions: list, LastTransactionID: s.txID()})
}

func (s *Server) handleOrders(c *gin.Context) {
	var req types.PostOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "", "Invalid order: "+err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.orderResult != nil {
		status, body := s.orderResult(req.Order)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusCreated, s.fill(req.Order))
}

// fill 默认撮合：有可交易报价则按最优价成交，否则取消
func (s *Server) fill(order types.MarketOrderRequest) types.PostOrderResponse {
	s.lastTxID++
	createID := s.txID()
	create := &types.OrderCreateTransaction{
		Transaction:  s.tx(createID, createID, types.TransactionMarketOrder),
		Instrument:   order.Instrument(),
		Units:        order.Units(),
		TimeInForce:  order.TimeInForce().String(),
		PositionFill: order.PositionFill().String(),
		Reason:       "CLIENT_ORDER",
	}

	s.lastTxID++
	id := s.txID()
	resp := types.PostOrderResponse{
		OrderCreateTransaction: create,
		RelatedTransactionIDs:  []string{createID, id},
		LastTransactionID:      id,
	}

	units, err := decimal.NewFromString(order.Units())
	price, ok := s.prices[order.Instrument()]
	if err != nil || !ok || !price.IsTradeable() || len(price.Bids) == 0 || len(price.Asks) == 0 {
		resp.OrderCancelTransaction = &types.OrderCancelTransaction{
			Transaction: s.tx(id, createID, types.TransactionOrderCancel),
			OrderID:     createID,
			Reason:      "MARKET_HALTED",
		}
		return resp
	}

	px := price.Asks[0].Price
	if units.IsNegative() {
		px = price.Bids[0].Price
	}
	resp.OrderFillTransaction = &types.OrderFillTransaction{
		Transaction: s.tx(id, createID, types.TransactionOrderFill),
		OrderID:     createID,
		Instrument:  order.Instrument(),
		Units:       order.Units(),
		Price:       px,
		Reason:      "MARKET_ORDER",
		PL:          "0.0000",
		Financing:   "0.0000",
		Commission:  "0.0000",
		TradeOpened: &types.TradeOpen{TradeID: id, Units: order.Units(), Price: px},
	}
	s.applyFill(order.Instrument(), units, px, id)
	return resp
}

func (s *Server) applyFill(instrument string, units decimal.Decimal, px, tradeID string) {
	pos, ok := s.positions[instrument]
	if !ok {
		pos = types.Position{Instrument: instrument, PL: "0", UnrealizedPL: "0", ResettablePL: "0",
			Long: types.EmptyPositionSide(), Short: types.EmptyPositionSide()}
	}
	side := &pos.Long
	if units.IsNegative() {
		side = &pos.Short
	}
	cur, _ := decimal.NewFromString(side.Units)
	side.Units = cur.Add(units).String()
	side.AveragePrice = px
	side.TradeIDs = append(side.TradeIDs, tradeID)
	s.positions[instrument] = pos
}

func (s *Server) tx(id, batch string, typ types.TransactionType) types.Transaction {
	return types.Transaction{
		ID:        id,
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		UserID:    1,
		AccountID: s.AccountID,
		BatchID:   batch,
		Type:      typ,
	}
}

func (s *Server) txID() string {
	return strconv.FormatInt(s.lastTxID, 10)
}

func abort(c *gin.Context, status int, code, msg string) {
	body := map[string]string{"errorMessage": msg}
	if code != "" {
		body["errorCode"] = code
	}
	raw, _ := json.Marshal(body)
	c.Data(status, "application/json", raw)
	c.Abort()
}
