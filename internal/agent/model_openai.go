package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"career-agent-go/internal/logger"
)

const (
	// OpenAI兼容的chat completions默认端点
	defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	defaultModelName          = "gpt-4o-mini"
	defaultRequestTimeout     = 90 * time.Second
)

// OpenAIChatModel 通过OpenAI兼容的HTTP接口实现 model.ToolCallingChatModel。
// 所有处理器通过构造函数注入该接口而非读取全局状态，测试中可以直接替换为mock。
type OpenAIChatModel struct {
	apiKey     string
	modelName  string
	apiURL     string
	httpClient *http.Client
}

// NewOpenAIChatModel 创建一个OpenAI兼容的聊天模型客户端
func NewOpenAIChatModel(apiKey string, modelName string, apiURL string) (*OpenAIChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}

	mn := modelName
	if strings.TrimSpace(mn) == "" {
		mn = defaultModelName
	}

	url := apiURL
	if strings.TrimSpace(url) == "" {
		url = defaultChatCompletionsURL
	}

	logger.Info().Str("api_url", url).Str("model", mn).Msg("初始化LLM客户端")

	return &OpenAIChatModel{
		apiKey:     apiKey,
		modelName:  mn,
		apiURL:     url,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}, nil
}

// chatCompletionRequest OpenAI兼容请求体。
// Eino的schema.Message字段与OpenAI的role/content布局兼容，直接复用。
type chatCompletionRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"`
}

type chatCompletionMessage struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatCompletionChoice struct {
	Index        int                   `json:"index"`
	Message      chatCompletionMessage `json:"message"`
	FinishReason string                `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Id      string                 `json:"id"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
}

// Generate 实现 model.ChatModel 接口
func (m *OpenAIChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	reqPayload := chatCompletionRequest{
		Model:    m.modelName,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+m.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	logger.Debug().Str("model", m.modelName).Int("messages", len(messages)).Msg("发送LLM请求")

	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var resp chatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &resp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := resp.Choices[0].Message
	content := ""
	if apiMessage.Content != nil {
		content = *apiMessage.Content
	}

	role := schema.RoleType(apiMessage.Role)
	if role == "" {
		role = schema.RoleType("assistant")
	}

	return &schema.Message{
		Role:    role,
		Content: content,
	}, nil
}

// Stream 实现 model.ChatModel 接口。
// 当前处理流程都是单次请求-响应，不需要流式输出。
func (m *OpenAIChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OpenAIChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口。
// 简历处理流程不使用工具调用，这里只是满足接口。
func (m *OpenAIChatModel) BindTools(tools []*schema.ToolInfo) error {
	return nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (m *OpenAIChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := m.BindTools(tools); err != nil {
		return nil, err
	}
	return m, nil
}

var _ model.ChatModel = (*OpenAIChatModel)(nil)
var _ model.ToolCallingChatModel = (*OpenAIChatModel)(nil)
