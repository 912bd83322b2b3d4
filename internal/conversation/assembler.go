package conversation

import (
	"strings"

	"github.com/eryajf/femcare/internal/apperr"
)

// 历史消息条数上限,超出部分从最旧的一端静默丢弃
const maxHistoryTurns = 10

// Turn 会话中的一条消息
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Assemble 将系统提示词、历史消息和新消息组装为有序的消息序列
// 输出顺序固定:系统消息在首,历史按原始时间顺序居中,新的用户消息收尾
// 缺少 role 或 content 的历史条目在计数之前被剔除,不报错
func Assemble(systemPrompt string, history []Turn, message string) ([]Turn, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperr.New(apperr.InvalidArgument, "The function must be called with a 'message' argument.")
	}

	turns := make([]Turn, 0, len(history)+2)
	turns = append(turns, Turn{Role: "system", Content: systemPrompt})

	// 先过滤无效条目,再截取最近的 10 条
	valid := make([]Turn, 0, len(history))
	for _, t := range history {
		if t.Role == "" || t.Content == "" {
			continue
		}
		valid = append(valid, t)
	}
	if len(valid) > maxHistoryTurns {
		valid = valid[len(valid)-maxHistoryTurns:]
	}
	turns = append(turns, valid...)

	turns = append(turns, Turn{Role: "user", Content: message})
	return turns, nil
}
