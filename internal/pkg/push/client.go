package push

import (
	"Murmur/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// Notification 推送内容
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
	Sound string
}

// payload 推送网关的请求体
type payload struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound,omitempty"`
}

// Sender 单次推送接口，调用方不依赖投递结果
type Sender interface {
	SendToDevice(ctx context.Context, token string, notification Notification) error
}

type Client struct {
	http         *resty.Client
	url          string
	defaultSound string
}

func NewClient(cfg config.PushConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5
	}

	httpClient := resty.New().
		SetTimeout(time.Duration(timeout) * time.Second).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:         httpClient,
		url:          cfg.URL,
		defaultSound: cfg.DefaultSound,
	}
}

// SendToDevice 对网关发起一次 POST，不重试不排队
func (c *Client) SendToDevice(ctx context.Context, token string, notification Notification) error {
	sound := notification.Sound
	if sound == "" {
		sound = c.defaultSound
	}

	body := payload{
		To:    token,
		Title: notification.Title,
		Body:  notification.Body,
		Data:  notification.Data,
		Sound: sound,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("push gateway request failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode(), resp.String())
	}

	log.InfoContext(ctx, "Push dispatched", "status", resp.StatusCode())
	return nil
}
