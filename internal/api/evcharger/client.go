package evcharger

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// DefaultEndpoint 环境部充电桩信息接口
const DefaultEndpoint = "https://apis.data.go.kr/B552584/EvCharger/getChargerInfo"

// 固定查询参数
const (
	defaultPageSize   = 9999
	defaultKindDetail = "C001" // 高速公路服务区
	resultCodeOK      = "00"
)

// Client 充电桩信息接口客户端
type Client struct {
	httpClient *http.Client
	endpoint   string
	pageSize   int
	kindDetail string
}

// Option 客户端配置项
type Option func(*Client)

// WithHTTPClient 自定义 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithPageSize 每页条数
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithKindDetail 充电站细分类代码
func WithKindDetail(code string) Option {
	return func(c *Client) {
		if code != "" {
			c.kindDetail = code
		}
	}
}

// NewClient 创建客户端
func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		pageSize:   defaultPageSize,
		kindDetail: defaultKindDetail,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// buildURL 组装请求地址
func (c *Client) buildURL(serviceKey string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}

	// 用户通常复制的是 URL 编码后的密钥
	if decoded, err := url.QueryUnescape(serviceKey); err == nil {
		serviceKey = decoded
	}

	q := u.Query()
	q.Set("serviceKey", serviceKey)
	q.Set("pageNo", "1")
	q.Set("numOfRows", strconv.Itoa(c.pageSize))
	q.Set("dataType", "JSON")
	q.Set("kindDetail", c.kindDetail)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// FetchChargers 获取全部高速公路服务区充电桩信息
func (c *Client) FetchChargers(ctx context.Context, serviceKey string) (*Result, error) {
	reqURL, err := c.buildURL(serviceKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &StatusError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &StatusError{StatusCode: resp.StatusCode, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		// 网关在密钥错误时返回 XML
		if isUnregisteredKey(string(body)) {
			return nil, ErrInvalidServiceKey
		}
		return nil, &DecodeError{Err: err}
	}

	if env.ResultCode != resultCodeOK {
		if isUnregisteredKey(env.ResultMsg) {
			return nil, ErrInvalidServiceKey
		}
		return nil, &ProviderError{Code: env.ResultCode, Message: env.ResultMsg}
	}

	return &Result{
		TotalCount: env.TotalCount,
		Items:      env.Items.Item,
	}, nil
}
