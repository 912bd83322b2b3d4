package llm

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	openai "github.com/sashabaranov/go-openai"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/conversation"
)

// Mode 响应模式
type Mode int

const (
	// ModeText 自由文本
	ModeText Mode = iota
	// ModeJSON JSON 对象,走服务端的结构化输出模式而非解析散文
	ModeJSON
)

// Config LLM 配置
type Config struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// CompletionRequest 一次完成请求
type CompletionRequest struct {
	Turns       []conversation.Turn
	Mode        Mode
	Temperature float32 // 0 时使用配置默认值
	MaxTokens   int     // 0 时使用配置默认值
}

// Client OpenAI 兼容的完成客户端
type Client struct {
	config *Config
	client *openai.Client
}

// NewClient 创建完成客户端
func NewClient(config *Config) *Client {
	clientConfig := openai.DefaultConfig(config.APIKey)

	// 直接使用配置的 BaseURL,不自动添加 /v1
	// 因为不同的 API 提供商可能有不同的路径格式
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
		logx.Debug("OpenAI client BaseURL: %s", config.BaseURL)
	}

	// 禁用 HTTP/2,强制使用 HTTP/1.1 以避免 INTERNAL_ERROR
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSNextProto:        make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
	}

	clientConfig.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   600 * time.Second,
	}

	return &Client{
		config: config,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// Complete 调用完成服务
// 每次调用只请求一次上游,不做内部重试;上游的任何失败都包装为 Internal 错误返回
func (c *Client) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Turns))
	for _, t := range req.Turns {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    t.Role,
			Content: t.Content,
		})
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.temperature(req.Temperature),
		MaxTokens:   c.maxTokens(req.MaxTokens),
	}

	if req.Mode == ModeJSON {
		openaiReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		logx.Error("OpenAI error: %v", err)
		return "", apperr.Wrap(apperr.Internal, "Failed to process AI request.", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.Internal, "no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// AnalyzeImage 图像分析:一条系统指令加一条携带文本和图片引用的用户消息
// 固定走结构化输出模式,皮肤分析的结果必须是合法 JSON
func (c *Client) AnalyzeImage(ctx context.Context, systemPrompt, instruction, imageURL string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: instruction,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    imageURL,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	openaiReq := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: c.temperature(0),
		MaxTokens:   c.maxTokens(0),
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, openaiReq)
	if err != nil {
		logx.Error("OpenAI error: %v", err)
		return "", apperr.Wrap(apperr.Internal, "Failed to process AI request.", err)
	}

	if len(resp.Choices) == 0 {
		return "", apperr.New(apperr.Internal, "no response choices")
	}

	return resp.Choices[0].Message.Content, nil
}

func (c *Client) temperature(override float32) float32 {
	if override > 0 {
		return override
	}
	if c.config.Temperature > 0 {
		return c.config.Temperature
	}
	return 0.7
}

func (c *Client) maxTokens(override int) int {
	if override > 0 {
		return override
	}
	if c.config.MaxTokens > 0 {
		return c.config.MaxTokens
	}
	return 500
}
