package utils

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError 非 2xx 响应
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("请求失败，状态码: %d, 响应: %s", e.StatusCode, e.Body)
}

// HTTPClient 带 Bearer 鉴权的 JSON HTTP 客户端
type HTTPClient struct {
	httpClient *http.Client
	baseURL    *url.URL
	token      string
}

// NewHTTPClient 创建新的HTTP客户端，client 为 nil 时使用带超时的默认客户端
func NewHTTPClient(baseURL, token string, client *http.Client) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("无效的 baseURL: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPClient{httpClient: client, baseURL: u, token: token}, nil
}

// ResolveURL 拼接相对路径与查询参数
func (c *HTTPClient) ResolveURL(path string, query url.Values) string {
	u := c.baseURL.ResolveReference(&url.URL{Path: path})
	u.RawQuery = query.Encode()
	return u.String()
}

// GetJSON 发送GET请求并解析JSON响应
func (c *HTTPClient) GetJSON(ctx context.Context, path string, query url.Values, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveURL(path, query), nil)
	if err != nil {
		return fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("创建gzip读取器失败: %w", err)
		}
		defer reader.Close()
	case "deflate":
		reader = flate.NewReader(resp.Body)
		defer reader.Close()
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("读取响应失败: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > 256 {
			body = body[:256]
		}
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("解析JSON失败: %w", err)
	}
	return nil
}
