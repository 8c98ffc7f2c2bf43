package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	HeaderRequestID      = "X-Request-ID"
	HeaderDatetimeFormat = "Accept-Datetime-Format"

	DefaultTimeout = 30 * time.Second
)

type Client struct {
	client *resty.Client
}

type Option func(*resty.Client)

// WithTimeout 单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithBearerToken 所有请求带 Authorization: Bearer <token>
func WithBearerToken(token string) Option {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// WithTransport 替换底层 RoundTripper（测试或代理场景）
func WithTransport(rt http.RoundTripper) Option {
	return func(c *resty.Client) {
		if rt != nil {
			c.SetTransport(rt)
		}
	}
}

func NewClient(host string, opts ...Option) *Client {
	host = strings.TrimSuffix(host, "/")

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY）
	// 不设置重试：失败一次就返回给调用方
	client := resty.New().
		SetBaseURL(host).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "gov20").
		SetHeader(HeaderDatetimeFormat, "RFC3339")

	for _, opt := range opts {
		opt(client)
	}
	return &Client{client: client}
}

type RequestOptions struct {
	Headers map[string]string
	Data    any
	Params  map[string]any
}

// 仅设置本次请求的 Header（不要再改 client 级 Header）
func (c *Client) newRequest(ctx context.Context) *resty.Request {
	r := c.client.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader(HeaderRequestID, uuid.NewString())
	return r
}

// DoRequest 发送请求并返回原始响应，不解析 body、不检查状态码
func (c *Client) DoRequest(ctx context.Context, method, endpoint string, opt *RequestOptions) (*resty.Response, error) {
	rc := c.newRequest(ctx)
	if opt != nil {
		for k, v := range opt.Headers {
			rc.SetHeader(k, v)
		}
		if opt.Params != nil {
			rc.SetQueryParamsFromValues(toValues(opt.Params))
		}
		if opt.Data != nil {
			rc.SetHeader("Content-Type", "application/json")
			rc.SetBody(opt.Data)
		}
	}

	switch m := strings.ToUpper(method); m {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return rc.Execute(m, endpoint)
	default:
		return nil, fmt.Errorf("unsupported method: %s", method)
	}
}

// RequestID 取回本次请求发送的 X-Request-ID
func RequestID(resp *resty.Response) string {
	if resp == nil || resp.Request == nil {
		return ""
	}
	return resp.Request.Header.Get(HeaderRequestID)
}

func toValues(m map[string]any) map[string][]string {
	v := make(map[string][]string, len(m))
	for k, val := range m {
		switch t := val.(type) {
		case []string:
			v[k] = []string{strings.Join(t, ",")}
		default:
			v[k] = []string{fmt.Sprint(val)}
		}
	}
	return v
}

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http non-2xx: %d %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// CheckResponse 把传输错误和非 2xx 响应统一成 error
// 传输错误原样包装（可 errors.Is context.DeadlineExceeded 等），非 2xx 为 *StatusError
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return errors.Wrap(err, "http request failed")
	}
	if resp == nil {
		return errors.New("http request failed: empty response")
	}
	if resp.IsSuccess() {
		return nil
	}
	return errors.WithStack(&StatusError{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	})
}
