package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/hireloop/interview"
)

// Interface compliance check.
var _ interview.Generator = (*Client)(nil)

// Client implements [interview.Generator] for the Google Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-3.1-pro-preview.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// New creates a new Gemini [Client] with the given API key and options.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Generate sends the conversation to the Gemini API and returns the generated
// interviewer turn.
func (c *Client) Generate(ctx context.Context, turns []interview.Turn) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, ConvertTurns(turns), buildConfig())
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	if reason := blockReason(resp); reason != "" {
		return "", &interview.BlockedError{Reason: reason}
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response")
	}
	return text, nil
}

func buildConfig() *genai.GenerateContentConfig {
	temp := float32(1)
	topP := float32(0.95)
	topK := float32(64)
	return &genai.GenerateContentConfig{
		MaxOutputTokens: defaultMaxTokens,
		Temperature:     &temp,
		TopP:            &topP,
		TopK:            &topK,
		SafetySettings:  safetySettings(),
	}
}

// safetySettings blocks medium-and-above content in the categories the
// interview service rejects.
func safetySettings() []*genai.SafetySetting {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, len(categories))
	for i, cat := range categories {
		settings[i] = &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		}
	}
	return settings
}

// blockReason extracts the safety-block reason from a response, or "" if the
// response was not blocked.
func blockReason(resp *genai.GenerateContentResponse) string {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		if fb.BlockReasonMessage != "" {
			return fb.BlockReasonMessage
		}
		return string(fb.BlockReason)
	}
	for _, cand := range resp.Candidates {
		if cand != nil && cand.FinishReason == genai.FinishReasonSafety {
			return string(genai.FinishReasonSafety)
		}
	}
	return ""
}

// ConvertTurns converts transcript turns to genai Contents.
// Exported for testing.
func ConvertTurns(turns []interview.Turn) []*genai.Content {
	result := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		role := "user"
		if t.Role == interview.RoleInterviewer {
			role = "model"
		}
		result = append(result, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Text}},
		})
	}
	return result
}
