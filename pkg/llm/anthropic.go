package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.Model("claude-haiku-4-5"),
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 2048,
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})

	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return cleanJSONResponse(resp.Content[0].Text), nil
}

func (c *AnthropicClient) GenerateArticleContent(ctx context.Context, input EnhanceInput) (*EnhanceResult, error) {
	userPrompt := fmt.Sprintf(enhancePromptTemplate, input.Title, input.Source, input.Category, input.Country, input.Content)

	content, err := c.complete(ctx, enhanceSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		EnhancedTitle  string `json:"enhancedTitle"`
		ArticleContent string `json:"articleContent"`
		Summary        string `json:"summary"`
	}

	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	if parsed.EnhancedTitle == "" || parsed.ArticleContent == "" || parsed.Summary == "" {
		return nil, fmt.Errorf("incomplete enhancement response: %s", content)
	}

	return &EnhanceResult{
		EnhancedTitle:  parsed.EnhancedTitle,
		ArticleContent: parsed.ArticleContent,
		Summary:        parsed.Summary,
		ModelUsed:      c.modelName,
	}, nil
}

func (c *AnthropicClient) GenerateVariants(ctx context.Context, title, content string) (*Variants, error) {
	userPrompt := fmt.Sprintf(variantsPromptTemplate, title, content)

	raw, err := c.complete(ctx, variantsSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		SocialPost  string `json:"socialPost"`
		ShortForm   string `json:"shortForm"`
		NewsChannel string `json:"newsChannel"`
	}

	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, raw)
	}

	if parsed.SocialPost == "" && parsed.ShortForm == "" && parsed.NewsChannel == "" {
		return nil, fmt.Errorf("empty variants response: %s", raw)
	}

	return &Variants{
		SocialPost:  parsed.SocialPost,
		ShortForm:   parsed.ShortForm,
		NewsChannel: parsed.NewsChannel,
		ModelUsed:   c.modelName,
	}, nil
}

func (c *AnthropicClient) AnalyzeSentiment(ctx context.Context, content string) (*Sentiment, error) {
	userPrompt := fmt.Sprintf(sentimentPromptTemplate, content)

	raw, err := c.complete(ctx, sentimentSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Sentiment     string   `json:"sentiment"`
		Objectivity   flexInt  `json:"objectivity"`
		KeyThemes     []string `json:"keyThemes"`
		PotentialBias string   `json:"potentialBias"`
	}

	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, raw)
	}

	if parsed.Sentiment == "" {
		return nil, fmt.Errorf("empty sentiment response: %s", raw)
	}

	return &Sentiment{
		Sentiment:     parsed.Sentiment,
		Objectivity:   int(parsed.Objectivity),
		KeyThemes:     parsed.KeyThemes,
		PotentialBias: parsed.PotentialBias,
		ModelUsed:     c.modelName,
	}, nil
}
