package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/staylucky/internal/config"
)

// Media Instagram 媒体数据
type Media struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	MediaURL  string    `json:"media_url"`
	Permalink string    `json:"permalink"`
	Caption   string    `json:"caption"`
	Timestamp time.Time `json:"timestamp"`
}

type mediaResponse struct {
	Data []struct {
		ID        string `json:"id"`
		Username  string `json:"username"`
		MediaURL  string `json:"media_url"`
		Permalink string `json:"permalink"`
		Caption   string `json:"caption"`
		Timestamp string `json:"timestamp"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client Instagram Graph API 客户端
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	enabled     bool
}

// NewClient 创建 Instagram 客户端
func NewClient(cfg config.InstagramConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://graph.instagram.com"
	}
	timeout := cfg.TimeoutMS
	if timeout <= 0 {
		timeout = 5000
	}
	return &Client{
		baseURL:     baseURL,
		accessToken: strings.TrimSpace(cfg.AccessToken),
		httpClient:  &http.Client{Timeout: time.Duration(timeout) * time.Millisecond},
		enabled:     cfg.Enabled,
	}
}

// Enabled 判断集成是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.enabled && c.accessToken != ""
}

// RecentMediaByHashtag 按话题标签拉取近期媒体
func (c *Client) RecentMediaByHashtag(ctx context.Context, hashtag string) ([]Media, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("instagram client disabled")
	}
	tag := strings.TrimPrefix(strings.TrimSpace(hashtag), "#")
	if tag == "" {
		return nil, fmt.Errorf("empty hashtag")
	}

	query := url.Values{}
	query.Set("q", tag)
	query.Set("fields", "id,username,media_url,permalink,caption,timestamp")
	query.Set("access_token", c.accessToken)
	endpoint := fmt.Sprintf("%s/hashtag_media/recent?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body mediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Error != nil {
		return nil, fmt.Errorf("instagram api error %d: %s", body.Error.Code, body.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram api status %d", resp.StatusCode)
	}

	media := make([]Media, 0, len(body.Data))
	for _, item := range body.Data {
		entry := Media{
			ID:        item.ID,
			Username:  item.Username,
			MediaURL:  item.MediaURL,
			Permalink: item.Permalink,
			Caption:   item.Caption,
		}
		if ts, err := time.Parse("2006-01-02T15:04:05-0700", item.Timestamp); err == nil {
			entry.Timestamp = ts
		}
		media = append(media, entry)
	}
	return media, nil
}
