package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/itsHenry35/sports-meeting-system-sub001/config"
)

// ── 客户端校验错误 ──

var (
	ErrEventNameEmpty   = errors.New("届次名称不能为空")
	ErrEventNameTooLong = errors.New("届次名称不能超过 100 个字符")
)

// APIError 服务端返回的业务错误，Message 原样透传给调用方
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client 所有 API 客户端的聚合入口
type Client struct {
	Settings SettingsAPI
	Events   EventAPI
}

// New 创建 Client 聚合
//
// 所有操作共用一个 resty 客户端：统一的 BaseURL、Bearer Token、超时，
// 以及逐请求的 X-Request-ID（便于与服务端日志对账）。
// 不做本地缓存与自动重试，每次调用都是一次全新往返。
func New(cfg *config.APIConfig, logger *zap.Logger) *Client {
	r := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			req.SetHeader("X-Request-ID", uuid.New().String())
			return nil
		})
	if cfg.Token != "" {
		r.SetAuthToken(cfg.Token)
	}

	return &Client{
		Settings: newSettingsClient(r, logger),
		Events:   newEventClient(r, logger),
	}
}

// envelope 统一响应包装的解码侧视图
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode 统一处理响应：网络错误包装、包装解码、code!=0 转 APIError、data 解码
func decode(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("请求失败: %w", err)
	}

	var env envelope
	if jerr := json.Unmarshal(resp.Body(), &env); jerr != nil {
		return fmt.Errorf("解析响应失败 (HTTP %d): %w", resp.StatusCode(), jerr)
	}

	if env.Code != 0 || resp.IsError() {
		msg := env.Message
		if msg == "" || msg == "success" {
			msg = fmt.Sprintf("请求失败 (HTTP %d)", resp.StatusCode())
		}
		return &APIError{Code: env.Code, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if jerr := json.Unmarshal(env.Data, out); jerr != nil {
			return fmt.Errorf("解析响应数据失败: %w", jerr)
		}
	}
	return nil
}

// ValidateEventName 届次名称客户端校验：非空且不超过 100 个字符
// 按 rune 计数，"第一届" 为 3 个字符
func ValidateEventName(name string) error {
	if name == "" {
		return ErrEventNameEmpty
	}
	if utf8.RuneCountInString(name) > 100 {
		return ErrEventNameTooLong
	}
	return nil
}
