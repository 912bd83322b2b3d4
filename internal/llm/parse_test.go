package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eryajf/femcare/internal/apperr"
)

func TestParseText(t *testing.T) {
	assert.Equal(t, "hello", ParseText("  hello \n"))
	assert.Equal(t, "", ParseText("   "))
}

func TestParseJSONMalformed(t *testing.T) {
	for _, content := range []string{"", "not json", `{"broken":`} {
		_, err := ParseJSON(content)
		require.Error(t, err)
		assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	}
}

func TestParseJSONSuccess(t *testing.T) {
	result, err := ParseJSON(`{"key":"value","n":3}`)
	require.NoError(t, err)
	assert.Equal(t, "value", result["key"])
	assert.EqualValues(t, 3, result["n"])
}

func TestParseWellnessContentRoundTrip(t *testing.T) {
	result, err := ParseWellnessContent(`{"content":"Drink water through the day.","suggestedTags":["hydration","skin"]}`)
	require.NoError(t, err)
	assert.Equal(t, "Drink water through the day.", result.Content)
	assert.Equal(t, []string{"hydration", "skin"}, result.SuggestedTags)
}

func TestParseWellnessContentMissingKey(t *testing.T) {
	_, err := ParseWellnessContent(`{"content":"text only"}`)
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "schema")
}

func TestParseIngredientProfile(t *testing.T) {
	content := `{
		"name": "Niacinamide",
		"scientificName": "Nicotinamide",
		"category": "vitamin",
		"description": "A form of vitamin B3.",
		"benefits": "Supports the skin barrier.",
		"concerns": "May flush at high concentrations.",
		"comedogenicRating": 0,
		"irritationRating": 1,
		"goodFor": ["oily skin", "redness"],
		"avoidWith": []
	}`

	result, err := ParseIngredientProfile(content)
	require.NoError(t, err)
	assert.Equal(t, "Niacinamide", result.Name)
	assert.Equal(t, 0, result.ComedogenicRating)
	assert.Equal(t, []string{"oily skin", "redness"}, result.GoodFor)
	assert.Empty(t, result.AvoidWith)
}

func TestParseSkinAnalysis(t *testing.T) {
	content := `{
		"overallScore": "78",
		"criteriaScores": {"hydration": 82, "texture": 74},
		"regionData": {"hydration": [0.1, 0.2, 0.3, 0.4]},
		"identifiedConcerns": ["dryness"],
		"recommendedRemedies": ["hyaluronic acid serum"],
		"recommendedProducts": ["gentle cleanser"],
		"precautions": ["patch test new products"],
		"routineRecommendations": ["moisturize twice daily"],
		"notes": "Overall healthy skin."
	}`

	result, err := ParseSkinAnalysis(content)
	require.NoError(t, err)
	assert.Equal(t, "78", result.OverallScore)
	assert.Equal(t, 82, result.CriteriaScores["hydration"])
	assert.Equal(t, [4]float64{0.1, 0.2, 0.3, 0.4}, result.RegionData["hydration"])
	assert.Equal(t, []string{"dryness"}, result.IdentifiedConcerns)
}

func TestParseSkinAnalysisRejectsOutOfRangeValues(t *testing.T) {
	// 分数超出 0-100
	badScore := `{
		"overallScore": "78",
		"criteriaScores": {"hydration": 120},
		"regionData": {},
		"identifiedConcerns": [],
		"recommendedRemedies": [],
		"recommendedProducts": [],
		"precautions": [],
		"routineRecommendations": [],
		"notes": ""
	}`
	_, err := ParseSkinAnalysis(badScore)
	require.Error(t, err)
	assert.Equal(t, apperr.Internal, apperr.KindOf(err))

	// 包围盒坐标超出 [0,1]
	badBox := `{
		"overallScore": "78",
		"criteriaScores": {},
		"regionData": {"hydration": [0.1, 0.2, 1.5, 0.4]},
		"identifiedConcerns": [],
		"recommendedRemedies": [],
		"recommendedProducts": [],
		"precautions": [],
		"routineRecommendations": [],
		"notes": ""
	}`
	_, err = ParseSkinAnalysis(badBox)
	require.Error(t, err)

	// 包围盒长度不是 4
	shortBox := `{
		"overallScore": "78",
		"criteriaScores": {},
		"regionData": {"hydration": [0.1, 0.2]},
		"identifiedConcerns": [],
		"recommendedRemedies": [],
		"recommendedProducts": [],
		"precautions": [],
		"routineRecommendations": [],
		"notes": ""
	}`
	_, err = ParseSkinAnalysis(shortBox)
	require.Error(t, err)
}
