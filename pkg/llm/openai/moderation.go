package openai

import (
	"context"
	"fmt"

	"document-bot-be/pkg/llm"

	"github.com/sashabaranov/go-openai"
)

// ModerationClient wraps the OpenAI moderation endpoint behind the
// llm.Moderator contract.
type ModerationClient struct {
	client *openai.Client
	model  string
}

var _ llm.Moderator = &ModerationClient{}

func NewModerationClient(apiKey, model string) *ModerationClient {
	if model == "" {
		model = "omni-moderation-latest"
	}
	return &ModerationClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (m *ModerationClient) Moderate(ctx context.Context, text string) (*llm.ModerationResult, error) {
	resp, err := m.client.Moderations(ctx, openai.ModerationRequest{
		Model: m.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("openai moderation failed: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("openai moderation returned no results")
	}

	r := resp.Results[0]
	result := &llm.ModerationResult{
		Flagged: r.Flagged,
		Scores:  map[string]float64{},
	}

	for _, c := range flattenCategories(r) {
		result.Scores[c.name] = c.score
		if c.flagged {
			result.Categories = append(result.Categories, c.name)
		}
	}

	return result, nil
}

type category struct {
	name    string
	flagged bool
	score   float64
}

// flattenCategories maps the fixed category struct of the API response into
// a stable, ordered list so error reasons are deterministic.
func flattenCategories(r openai.Result) []category {
	return []category{
		{"harassment", r.Categories.Harassment, float64(r.CategoryScores.Harassment)},
		{"harassment/threatening", r.Categories.HarassmentThreatening, float64(r.CategoryScores.HarassmentThreatening)},
		{"hate", r.Categories.Hate, float64(r.CategoryScores.Hate)},
		{"hate/threatening", r.Categories.HateThreatening, float64(r.CategoryScores.HateThreatening)},
		{"self-harm", r.Categories.SelfHarm, float64(r.CategoryScores.SelfHarm)},
		{"self-harm/instructions", r.Categories.SelfHarmInstructions, float64(r.CategoryScores.SelfHarmInstructions)},
		{"self-harm/intent", r.Categories.SelfHarmIntent, float64(r.CategoryScores.SelfHarmIntent)},
		{"sexual", r.Categories.Sexual, float64(r.CategoryScores.Sexual)},
		{"sexual/minors", r.Categories.SexualMinors, float64(r.CategoryScores.SexualMinors)},
		{"violence", r.Categories.Violence, float64(r.CategoryScores.Violence)},
		{"violence/graphic", r.Categories.ViolenceGraphic, float64(r.CategoryScores.ViolenceGraphic)},
	}
}
