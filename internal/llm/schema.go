package llm

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/eryajf/femcare/internal/apperr"
)

// 固定结构响应的 JSON Schema
// 上游虽然承诺结构化输出,但返回内容在落到调用方之前先在这里过一遍校验
const wellnessContentSchema = `{
	"type": "object",
	"required": ["content", "suggestedTags"],
	"properties": {
		"content": {"type": "string"},
		"suggestedTags": {"type": "array", "items": {"type": "string"}}
	}
}`

const ingredientSchema = `{
	"type": "object",
	"required": ["name", "scientificName", "category", "description", "benefits", "concerns", "comedogenicRating", "irritationRating", "goodFor", "avoidWith"],
	"properties": {
		"name": {"type": "string"},
		"scientificName": {"type": "string"},
		"category": {"type": "string"},
		"description": {"type": "string"},
		"benefits": {"type": "string"},
		"concerns": {"type": "string"},
		"comedogenicRating": {"type": "integer"},
		"irritationRating": {"type": "integer"},
		"goodFor": {"type": "array", "items": {"type": "string"}},
		"avoidWith": {"type": "array", "items": {"type": "string"}}
	}
}`

const skinAnalysisSchema = `{
	"type": "object",
	"required": ["overallScore", "criteriaScores", "regionData", "identifiedConcerns", "recommendedRemedies", "recommendedProducts", "precautions", "routineRecommendations", "notes"],
	"properties": {
		"overallScore": {"type": "string"},
		"criteriaScores": {
			"type": "object",
			"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
		},
		"regionData": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {"type": "number", "minimum": 0, "maximum": 1},
				"minItems": 4,
				"maxItems": 4
			}
		},
		"identifiedConcerns": {"type": "array", "items": {"type": "string"}},
		"recommendedRemedies": {"type": "array", "items": {"type": "string"}},
		"recommendedProducts": {"type": "array", "items": {"type": "string"}},
		"precautions": {"type": "array", "items": {"type": "string"}},
		"routineRecommendations": {"type": "array", "items": {"type": "string"}},
		"notes": {"type": "string"}
	}
}`

// validateSchema 校验响应内容是否符合固定结构
// 语法错误和结构不符都归为 Internal:都是上游没有履约
func validateSchema(schema, content string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(content),
	)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to parse AI response as JSON", err)
	}

	if !result.Valid() {
		var details []string
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return apperr.New(apperr.Internal, fmt.Sprintf("AI response does not match expected schema: %s", strings.Join(details, "; ")))
	}

	return nil
}
