package generation

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Gateway produces an Excel artifact for a task description. No retries at
// this layer: a single upstream failure surfaces to the caller.
type Gateway interface {
	Generate(ctx context.Context, input string, kind OutputKind) (string, error)
}

// OpenAIConfig holds generation API settings sourced from the environment.
type OpenAIConfig struct {
	APIKey    string `env:"OPENAI_API_KEY,required"`                    // APIKey authenticates against the generation API.
	Model     string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`      // Model is the chat completion model to use.
	MaxTokens int    `env:"OPENAI_MAX_TOKENS" envDefault:"1024"`        // MaxTokens bounds the completion length.
}

// completionClient is the slice of the OpenAI SDK this gateway needs;
// narrowed for test doubles.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIGateway implements Gateway over the OpenAI chat completions API.
type OpenAIGateway struct {
	client    completionClient
	model     string
	maxTokens int
}

// NewOpenAIGateway creates a generation gateway.
func NewOpenAIGateway(cfg OpenAIConfig) (*OpenAIGateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return &OpenAIGateway{
		client:    openai.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate builds the prompt for the kind and performs one completion call.
// Empty content and transport failures both map to ErrGenerationFailed.
func (g *OpenAIGateway) Generate(ctx context.Context, input string, kind OutputKind) (string, error) {
	prompt, err := BuildPrompt(input, kind)
	if err != nil {
		return "", err
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", errors.Join(ErrGenerationFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.Join(ErrGenerationFailed, errors.New("no choices returned"))
	}

	output := strings.TrimSpace(resp.Choices[0].Message.Content)
	if output == "" {
		return "", errors.Join(ErrGenerationFailed, errors.New("no content generated"))
	}

	return output, nil
}
