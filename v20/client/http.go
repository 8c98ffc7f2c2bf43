package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	sdkhttp "github.com/betbot/gov20/pkg/sdk/http"
	"github.com/sirupsen/logrus"
)

// ErrorKind 请求失败的类别
type ErrorKind int

const (
	ErrTransport ErrorKind = iota + 1 // 连接/DNS/超时
	ErrStatus                         // 非 2xx
	ErrDecode                         // 响应体无法解析成目标类型
	ErrEncode                         // 请求体序列化失败
)

func (k ErrorKind) String() string {
	switch k {
	case ErrTransport:
		return "transport"
	case ErrStatus:
		return "status"
	case ErrDecode:
		return "decode"
	case ErrEncode:
		return "encode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// RequestError 类型化请求的失败结果
type RequestError struct {
	Kind       ErrorKind
	Method     string
	Endpoint   string
	StatusCode int
	ErrorCode  string // 服务端 errorCode（如有）
	Message    string // 服务端 errorMessage（如有）
	RequestID  string
	Err        error
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("v20 %s %s 失败 (%s)", e.Method, e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" HTTP %d", e.StatusCode)
	}
	if e.ErrorCode != "" {
		msg += " [" + e.ErrorCode + "]"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error { return e.Err }

// IsKind 判断 err 是否为指定类别的 RequestError
func IsKind(err error, kind ErrorKind) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == kind
}

// IsNotFound 服务端返回 404
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == ErrStatus && re.StatusCode == http.StatusNotFound
}

// apiError 服务端错误响应体
type apiError struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
}

// get 发送 GET 并把响应解析为 T
func get[T any](ctx context.Context, c *Client, endpoint string, params map[string]any) (*T, error) {
	return do[T](ctx, c, http.MethodGet, endpoint, params, nil)
}

// post 把 body 序列化为 JSON 发送 POST，并把响应解析为 T
func post[T any](ctx context.Context, c *Client, endpoint string, body any) (*T, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, &RequestError{Kind: ErrEncode, Method: http.MethodPost, Endpoint: endpoint, Err: err}
	}
	return do[T](ctx, c, http.MethodPost, endpoint, nil, data)
}

func do[T any](ctx context.Context, c *Client, method, endpoint string, params map[string]any, data []byte) (*T, error) {
	opt := &sdkhttp.RequestOptions{Params: params}
	if data != nil {
		opt.Data = data
	}

	start := time.Now()
	resp, err := c.http.DoRequest(ctx, method, endpoint, opt)
	reqID := sdkhttp.RequestID(resp)
	entry := c.log.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": reqID,
		"elapsed":    time.Since(start),
	})

	if err := sdkhttp.CheckResponse(resp, err); err != nil {
		rerr := &RequestError{Kind: ErrTransport, Method: method, Endpoint: endpoint, RequestID: reqID, Err: err}
		var se *sdkhttp.StatusError
		if errors.As(err, &se) {
			rerr.Kind = ErrStatus
			rerr.StatusCode = se.StatusCode
			var body apiError
			if json.Unmarshal(se.Body, &body) == nil {
				rerr.ErrorCode = body.ErrorCode
				rerr.Message = body.ErrorMessage
			}
		}
		entry.WithField("status", rerr.StatusCode).Warnf("v20 请求失败: %v", rerr)
		return nil, rerr
	}

	out := new(T)
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		rerr := &RequestError{Kind: ErrDecode, Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode(), RequestID: reqID, Err: err}
		entry.WithField("status", resp.StatusCode()).Warnf("v20 响应解析失败: %v", err)
		return nil, rerr
	}

	entry.WithField("status", resp.StatusCode()).Debug("v20 请求完成")
	return out, nil
}
