package llm

import (
	"encoding/json"
	"strings"

	"github.com/eryajf/femcare/internal/apperr"
)

// WellnessContent 养生内容的固定结构
type WellnessContent struct {
	Content       string   `json:"content"`
	SuggestedTags []string `json:"suggestedTags"`
}

// IngredientProfile 护肤成分档案的固定结构
type IngredientProfile struct {
	Name              string   `json:"name"`
	ScientificName    string   `json:"scientificName"`
	Category          string   `json:"category"`
	Description       string   `json:"description"`
	Benefits          string   `json:"benefits"`
	Concerns          string   `json:"concerns"`
	ComedogenicRating int      `json:"comedogenicRating"`
	IrritationRating  int      `json:"irritationRating"`
	GoodFor           []string `json:"goodFor"`
	AvoidWith         []string `json:"avoidWith"`
}

// SkinAnalysis 皮肤分析的固定结构
// RegionData 的值是归一化的 [x, y, w, h] 包围盒
type SkinAnalysis struct {
	OverallScore           string                `json:"overallScore"`
	CriteriaScores         map[string]int        `json:"criteriaScores"`
	RegionData             map[string][4]float64 `json:"regionData"`
	IdentifiedConcerns     []string              `json:"identifiedConcerns"`
	RecommendedRemedies    []string              `json:"recommendedRemedies"`
	RecommendedProducts    []string              `json:"recommendedProducts"`
	Precautions            []string              `json:"precautions"`
	RoutineRecommendations []string              `json:"routineRecommendations"`
	Notes                  string                `json:"notes"`
}

// ParseText 纯文本模式:去掉首尾空白后原样返回
func ParseText(content string) string {
	return strings.TrimSpace(content)
}

// ParseJSON 通用 JSON 模式:解析失败直接作为 Internal 错误上抛,不做静默降级
func ParseJSON(content string) (map[string]any, error) {
	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to parse AI response as JSON", err)
	}
	return result, nil
}

// ParseWellnessContent 解析并校验养生内容响应
func ParseWellnessContent(content string) (*WellnessContent, error) {
	if err := validateSchema(wellnessContentSchema, content); err != nil {
		return nil, err
	}
	var result WellnessContent
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to parse wellness content response", err)
	}
	return &result, nil
}

// ParseIngredientProfile 解析并校验成分档案响应
func ParseIngredientProfile(content string) (*IngredientProfile, error) {
	if err := validateSchema(ingredientSchema, content); err != nil {
		return nil, err
	}
	var result IngredientProfile
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to parse ingredient response", err)
	}
	return &result, nil
}

// ParseSkinAnalysis 解析并校验皮肤分析响应
func ParseSkinAnalysis(content string) (*SkinAnalysis, error) {
	if err := validateSchema(skinAnalysisSchema, content); err != nil {
		return nil, err
	}
	var result SkinAnalysis
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to parse skin analysis response", err)
	}
	return &result, nil
}
