package server

import (
	"fmt"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/config"
	"github.com/eryajf/femcare/internal/conversation"
	"github.com/eryajf/femcare/internal/llm"
	"github.com/eryajf/femcare/internal/memory"
	"github.com/eryajf/femcare/internal/middleware"
	"github.com/eryajf/femcare/internal/prompt"
	"github.com/eryajf/femcare/internal/service"
)

// AIHandler 处理 AI 请求
type AIHandler struct {
	config              *config.Config
	llmClient           *llm.Client
	store               memory.Store
	chatLogService      *service.ChatLogService
	conversationService *service.ConversationService
}

// NewAIHandler 创建 AIHandler
func NewAIHandler(cfg *config.Config, db *gorm.DB, llmClient *llm.Client, store memory.Store) *AIHandler {
	return &AIHandler{
		config:              cfg,
		llmClient:           llmClient,
		store:               store,
		chatLogService:      service.NewChatLogService(db),
		conversationService: service.NewConversationService(db),
	}
}

// ResponseRequest 对话请求
type ResponseRequest struct {
	Category            string              `json:"category"`
	Message             string              `json:"message"`
	ConversationHistory []conversation.Turn `json:"conversation_history"`
	ConversationID      uint                `json:"conversation_id"`
	UserContext         *prompt.Context     `json:"user_context"`
}

// ContentRequest 内容生成请求
type ContentRequest struct {
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// SkinAnalysisRequest 皮肤图片分析请求
type SkinAnalysisRequest struct {
	ImageURL string `json:"image_url"`
}

// IngredientRequest 成分分析请求
type IngredientRequest struct {
	Name string `json:"name"`
}

// requireAPIKey 校验完成服务凭证是否已配置
// 缺少凭证属于配置错误,与运行期的提供方错误区分开
func (h *AIHandler) requireAPIKey() error {
	if h.config.LLM.APIKey == "" {
		return apperr.New(apperr.FailedPrecondition, "OpenAI API key not configured.")
	}
	return nil
}

// GenerateResponse 生成对话回复
func (h *AIHandler) GenerateResponse(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	if err := h.requireAPIKey(); err != nil {
		fail(c, err)
		return
	}

	var req ResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err))
		return
	}

	systemPrompt := prompt.Build(prompt.Category(req.Category), req.UserContext)

	// 优先使用请求自带的历史,否则按会话 ID 取缓存的历史
	history := req.ConversationHistory
	if len(history) == 0 && req.ConversationID > 0 {
		history = h.loadHistory(req.ConversationID)
	}

	turns, err := conversation.Assemble(systemPrompt, history, req.Message)
	if err != nil {
		fail(c, err)
		return
	}

	content, err := h.llmClient.Complete(c.Request.Context(), &llm.CompletionRequest{
		Turns: turns,
		Mode:  llm.ModeText,
	})
	if err != nil {
		fail(c, err)
		return
	}

	reply := llm.ParseText(content)

	// 回复成功后落库并更新缓存,失败只记日志不影响响应
	h.record(userID, req.Category, req.Message, reply, req.ConversationID)

	success(c, gin.H{
		"response": reply,
	})
}

// GenerateContent 生成养生内容
func (h *AIHandler) GenerateContent(c *gin.Context) {
	if _, ok := middleware.CallerID(c); !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	if err := h.requireAPIKey(); err != nil {
		fail(c, err)
		return
	}

	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err))
		return
	}
	if req.Title == "" || req.Type == "" {
		fail(c, apperr.New(apperr.InvalidArgument, "The function must be called with 'title' and 'type' arguments."))
		return
	}

	category := prompt.Category(req.Category)
	if req.Category == "" {
		category = prompt.CategoryWellness
	}
	systemPrompt := prompt.Build(category, nil)

	instruction := fmt.Sprintf("Write a %s titled \"%s\".", req.Type, req.Title)
	if len(req.Tags) > 0 {
		instruction += fmt.Sprintf(" Relevant tags: %s.", strings.Join(req.Tags, ", "))
	}
	instruction += ` Return a JSON object with keys "content" (the full text) and "suggestedTags" (an array of short topic tags).`

	turns, err := conversation.Assemble(systemPrompt, nil, instruction)
	if err != nil {
		fail(c, err)
		return
	}

	raw, err := h.llmClient.Complete(c.Request.Context(), &llm.CompletionRequest{
		Turns: turns,
		Mode:  llm.ModeJSON,
	})
	if err != nil {
		fail(c, err)
		return
	}

	result, err := llm.ParseWellnessContent(raw)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, result)
}

// AnalyzeIngredient 生成护肤成分档案
func (h *AIHandler) AnalyzeIngredient(c *gin.Context) {
	if _, ok := middleware.CallerID(c); !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	if err := h.requireAPIKey(); err != nil {
		fail(c, err)
		return
	}

	var req IngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err))
		return
	}
	if req.Name == "" {
		fail(c, apperr.New(apperr.InvalidArgument, "The function must be called with a 'name' argument."))
		return
	}

	systemPrompt := prompt.Build(prompt.CategoryIngredient, nil)
	instruction := fmt.Sprintf("Analyze the skincare ingredient %q.", req.Name)

	turns, err := conversation.Assemble(systemPrompt, nil, instruction)
	if err != nil {
		fail(c, err)
		return
	}

	raw, err := h.llmClient.Complete(c.Request.Context(), &llm.CompletionRequest{
		Turns: turns,
		Mode:  llm.ModeJSON,
	})
	if err != nil {
		fail(c, err)
		return
	}

	result, err := llm.ParseIngredientProfile(raw)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, result)
}

// AnalyzeSkinImage 分析皮肤图片
func (h *AIHandler) AnalyzeSkinImage(c *gin.Context) {
	if _, ok := middleware.CallerID(c); !ok {
		fail(c, apperr.New(apperr.Unauthenticated, "The function must be called while authenticated."))
		return
	}

	if err := h.requireAPIKey(); err != nil {
		fail(c, err)
		return
	}

	var req SkinAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.Wrap(apperr.InvalidArgument, "Invalid request body", err))
		return
	}
	if req.ImageURL == "" {
		fail(c, apperr.New(apperr.InvalidArgument, "The function must be called with an 'image_url' argument."))
		return
	}

	systemPrompt := prompt.Build(prompt.CategoryDermatologist, nil)
	instruction := `Analyze the skin in this photo. Return a JSON object with keys "overallScore" (text), "criteriaScores" (mapping of criterion to an integer score 0-100), "regionData" (mapping of criterion to a 4-element array of normalized [0,1] bounding box coordinates), "identifiedConcerns", "recommendedRemedies", "recommendedProducts", "precautions", "routineRecommendations" (each an array of text) and "notes" (text).`

	raw, err := h.llmClient.AnalyzeImage(c.Request.Context(), systemPrompt, instruction, req.ImageURL)
	if err != nil {
		fail(c, err)
		return
	}

	result, err := llm.ParseSkinAnalysis(raw)
	if err != nil {
		fail(c, err)
		return
	}

	success(c, result)
}

// loadHistory 取会话历史:先查缓存,未命中回源数据库并回填
func (h *AIHandler) loadHistory(conversationID uint) []conversation.Turn {
	if turns, err := h.store.History(conversationID); err == nil && len(turns) > 0 {
		return turns
	}

	messages, err := h.conversationService.GetConversationMessages(conversationID)
	if err != nil {
		logx.Warn("Failed to load conversation %d history: %v", conversationID, err)
		return nil
	}

	turns := make([]conversation.Turn, 0, len(messages))
	for _, msg := range messages {
		role := "user"
		if msg.ChatType == 2 {
			role = "assistant"
		}
		turns = append(turns, conversation.Turn{Role: role, Content: msg.Content})
	}
	if len(turns) > 0 {
		if err := h.store.Append(conversationID, turns...); err != nil {
			logx.Warn("Failed to cache conversation %d history: %v", conversationID, err)
		}
	}
	return turns
}

// record 记录一轮问答到数据库和缓存
func (h *AIHandler) record(userID, category, message, reply string, conversationID uint) {
	if conversationID == 0 {
		// 标题按字符截断,不能切到多字节字符的中间
		title := message
		if runes := []rune(title); len(runes) > 50 {
			title = string(runes[:50])
		}
		conv, err := h.conversationService.CreateConversation(userID, title, category)
		if err != nil {
			logx.Error("Failed to create conversation: %v", err)
			return
		}
		conversationID = conv.ID
	}

	userMsg, err := h.chatLogService.CreateUserMessage(userID, category, message, conversationID)
	if err != nil {
		logx.Error("Failed to save user message: %v", err)
		return
	}
	if _, err := h.chatLogService.CreateAIMessage(userID, category, reply, userMsg.ID, conversationID); err != nil {
		logx.Error("Failed to save AI message: %v", err)
		return
	}
	if err := h.conversationService.UpdateLastMessageAt(conversationID); err != nil {
		logx.Warn("Failed to update conversation %d: %v", conversationID, err)
	}
	if err := h.store.Append(conversationID,
		conversation.Turn{Role: "user", Content: message},
		conversation.Turn{Role: "assistant", Content: reply},
	); err != nil {
		logx.Warn("Failed to cache conversation %d turns: %v", conversationID, err)
	}
}
