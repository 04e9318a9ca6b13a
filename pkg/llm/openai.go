package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4o,
		modelName: "gpt-4o",
	}
}

func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})

	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	return cleanJSONResponse(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) GenerateArticleContent(ctx context.Context, input EnhanceInput) (*EnhanceResult, error) {
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

func (c *OpenAIClient) GenerateVariants(ctx context.Context, title, content string) (*Variants, error) {
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

func (c *OpenAIClient) AnalyzeSentiment(ctx context.Context, content string) (*Sentiment, error) {
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
