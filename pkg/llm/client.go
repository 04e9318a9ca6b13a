package llm

import (
	"context"
	"os"
	"strconv"
	"strings"
)

// NewFromEnv returns the configured Enhancer, preferring OpenAI, or nil
// when no API key is set.
func NewFromEnv() Enhancer {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return NewOpenAIClient(key)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return NewAnthropicClient(key)
	}
	return nil
}

type EnhanceInput struct {
	Title    string
	Content  string
	Source   string
	Category string
	Country  string
}

type EnhanceResult struct {
	EnhancedTitle  string
	ArticleContent string
	Summary        string
	ModelUsed      string
}

type Variants struct {
	SocialPost  string
	ShortForm   string
	NewsChannel string
	ModelUsed   string
}

type Sentiment struct {
	Sentiment     string
	Objectivity   int
	KeyThemes     []string
	PotentialBias string
	ModelUsed     string
}

// Enhancer is the generative-text collaborator. Malformed or empty
// responses are errors, never empty-but-valid data; callers own the
// fallback behavior.
type Enhancer interface {
	GenerateArticleContent(ctx context.Context, input EnhanceInput) (*EnhanceResult, error)
	GenerateVariants(ctx context.Context, title, content string) (*Variants, error)
	AnalyzeSentiment(ctx context.Context, content string) (*Sentiment, error)
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

// flexInt tolerates models returning "7" or "scale 7" where an integer was
// asked for.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	for _, field := range strings.Fields(s) {
		if n, err := strconv.Atoi(field); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	*f = 0
	return nil
}
