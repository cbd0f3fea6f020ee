// Package client 转发接口的 HTTP 客户端，供命令行对话使用
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chatrelay/internal/model"
)

// defaultTimeout 默认请求超时
const defaultTimeout = 2 * time.Minute

// Error 转发接口返回的非 200 响应
type Error struct {
	StatusCode int
	Code       int
	Msg        string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("relay returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("relay returned status %d: %s", e.StatusCode, e.Msg)
}

// Client 转发接口客户端
type Client struct {
	url        string
	bearer     string
	httpClient *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithBearer 通过 Authorization 头传递 API Key
func WithBearer(key string) Option {
	return func(c *Client) {
		c.bearer = key
	}
}

// WithTimeout 设置请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New 创建客户端，url 为转发接口的完整地址
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send 发送一次转发请求
func (c *Client) Send(ctx context.Context, req *model.RelayRequest) (*model.RelayResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal relay request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send relay request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var env model.ErrorResponse
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &Error{StatusCode: resp.StatusCode, Msg: string(body)}
		}
		return nil, &Error{StatusCode: resp.StatusCode, Code: env.Code, Msg: env.Msg}
	}

	var out model.RelayResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode relay response: %w", err)
	}
	return &out, nil
}
