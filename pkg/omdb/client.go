package omdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// DefaultEndpoint OMDb API 地址
const DefaultEndpoint = "https://www.omdbapi.com/"

// ErrNotFound OMDb 中没有匹配的剧集
var ErrNotFound = errors.New("title not found")

// Resolver 根据剧名查询 IMDb ID
type Resolver interface {
	LookupIMDbID(ctx context.Context, title string) (string, error)
}

// Client OMDb 客户端，带熔断、限流和内存缓存
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[string]

	mu    sync.RWMutex
	cache map[string]string // lower-cased title -> imdb id
}

type Option func(*Client)

// WithHTTPClient 替换默认的 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit 设置每秒请求数上限
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

func NewClient(endpoint, apiKey string, options ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 5),
		cache:   make(map[string]string),
	}
	for _, opt := range options {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "omdb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 查无此剧是正常结果，不计入失败
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound)
		},
	})
	return c
}

type searchResponse struct {
	Response string `json:"Response"`
	IMDbID   string `json:"imdbID"`
	Error    string `json:"Error"`
}

// LookupIMDbID 查询剧集 (type=series) 的 IMDb ID
func (c *Client) LookupIMDbID(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrNotFound
	}
	key := strings.ToLower(title)

	c.mu.RLock()
	id, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return id, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("omdb rate limit: %w", err)
	}

	id, err := c.breaker.Execute(func() (string, error) {
		return c.fetch(ctx, title)
	})
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.cache[key] = id
	c.mu.Unlock()
	return id, nil
}

func (c *Client) fetch(ctx context.Context, title string) (string, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	q.Set("type", "series")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("omdb request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("omdb api error (status %d): %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("failed to parse omdb response: %w", err)
	}
	if sr.Response != "True" || sr.IMDbID == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, title)
	}
	return sr.IMDbID, nil
}

// IMDbURL 返回 IMDb 页面地址
func IMDbURL(id string) string {
	return "https://www.imdb.com/title/" + id + "/"
}
