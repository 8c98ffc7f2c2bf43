package client

import (
	"strings"
	"time"

	sdkhttp "github.com/betbot/gov20/pkg/sdk/http"
	"github.com/sirupsen/logrus"
)

// Client v20 REST 交易客户端
// 绑定 baseURL、账户 id 与 bearer token，持有品种缓存。可被多个 goroutine 共享。
type Client struct {
	baseURL     string
	accountID   string
	http        *sdkhttp.Client
	instruments *InstrumentCache
	log         *logrus.Entry
}

type clientOptions struct {
	timeout   time.Duration
	http      *sdkhttp.Client
	log       *logrus.Entry
	transport []sdkhttp.Option
}

// Option 客户端可选项
type Option func(*clientOptions)

// WithTimeout 单次请求超时（默认 30s）
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithLogger 替换默认的 logrus entry
func WithLogger(l *logrus.Entry) Option {
	return func(o *clientOptions) { o.log = l }
}

// WithHTTPClient 直接使用外部构造的传输层（忽略 token 与超时设置）
func WithHTTPClient(h *sdkhttp.Client) Option {
	return func(o *clientOptions) { o.http = h }
}

// WithTransportOptions 追加传输层选项
func WithTransportOptions(opts ...sdkhttp.Option) Option {
	return func(o *clientOptions) { o.transport = append(o.transport, opts...) }
}

// NewClient 创建新的 v20 客户端，不对参数做校验
func NewClient(baseURL, accountID, token string, opts ...Option) *Client {
	o := clientOptions{
		timeout: sdkhttp.DefaultTimeout,
		log:     logrus.WithField("component", "v20"),
	}
	for _, opt := range opts {
		opt(&o)
	}

	h := o.http
	if h == nil {
		topts := []sdkhttp.Option{sdkhttp.WithBearerToken(token), sdkhttp.WithTimeout(o.timeout)}
		h = sdkhttp.NewClient(baseURL, append(topts, o.transport...)...)
	}

	return &Client{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		accountID:   accountID,
		http:        h,
		instruments: newInstrumentCache(),
		log:         o.log.WithField("account", accountID),
	}
}

// BaseURL 获取 API 地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AccountID 获取账户 id
func (c *Client) AccountID() string {
	return c.accountID
}
