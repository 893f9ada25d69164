package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wandererfin/wanderer/internal/domain"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.1
	maxTokens          = 400
)

// OpenAI classifies a stock context into a BUY/HOLD call via chat completion.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAI creates the classifier. Empty model/zero temperature fall back to
// defaults.
func NewOpenAI(apiKey, model string, temperature float32) *OpenAI {
	if model == "" {
		model = defaultModel
	}
	if temperature == 0 {
		temperature = defaultTemperature
	}
	return &OpenAI{
		client:      openai.NewClient(apiKey),
		model:       model,
		temperature: temperature,
	}
}

// Classify asks the model for an intraday call on the given stock context.
func (o *OpenAI) Classify(ctx context.Context, input domain.StockContext) (domain.Classification, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(input)},
		},
		Temperature: o.temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return domain.Classification{}, fmt.Errorf("llm.Classify: %s: %w", input.Ticker, err)
	}
	if len(resp.Choices) == 0 {
		return domain.Classification{}, fmt.Errorf("llm.Classify: %s: empty completion", input.Ticker)
	}

	cls, err := parseClassification(resp.Choices[0].Message.Content)
	if err != nil {
		return domain.Classification{}, fmt.Errorf("llm.Classify: %s: %w", input.Ticker, err)
	}
	return cls, nil
}

type rawClassification struct {
	Action      string `json:"action"`
	Explanation string `json:"explanation"`
}

// parseClassification extracts the JSON object from the completion text and
// validates the action. Models sometimes wrap the JSON in prose or fences.
func parseClassification(content string) (domain.Classification, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return domain.Classification{}, fmt.Errorf("no JSON object in completion: %q", content)
	}

	var raw rawClassification
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return domain.Classification{}, fmt.Errorf("decode completion: %w", err)
	}

	action := domain.Action(strings.ToUpper(strings.TrimSpace(raw.Action)))
	if action != domain.ActionBuy && action != domain.ActionHold {
		return domain.Classification{}, fmt.Errorf("unexpected action %q", raw.Action)
	}
	if strings.TrimSpace(raw.Explanation) == "" {
		return domain.Classification{}, fmt.Errorf("empty explanation for action %s", action)
	}

	return domain.Classification{Action: action, Explanation: raw.Explanation}, nil
}
