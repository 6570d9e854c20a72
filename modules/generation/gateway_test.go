package generation

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompletionClient struct {
	resp openai.ChatCompletionResponse
	err  error
	got  openai.ChatCompletionRequest
}

func (c *stubCompletionClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.got = req
	return c.resp, c.err
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{
			Message: openai.ChatCompletionMessage{Content: content},
		}},
	}
}

func TestNewOpenAIGateway(t *testing.T) {
	t.Parallel()

	t.Run("requires an API key", func(t *testing.T) {
		t.Parallel()

		_, err := NewOpenAIGateway(OpenAIConfig{})
		require.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("carries the configured model", func(t *testing.T) {
		t.Parallel()

		g, err := NewOpenAIGateway(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", MaxTokens: 1024})
		require.NoError(t, err)
		assert.Equal(t, "gpt-4o-mini", g.model)
		assert.Equal(t, 1024, g.maxTokens)
	})
}

func TestOpenAIGatewayGenerate(t *testing.T) {
	t.Parallel()

	t.Run("sends the rendered prompt and returns trimmed content", func(t *testing.T) {
		t.Parallel()

		client := &stubCompletionClient{resp: completionWith("  =SUM(A:A)\n")}
		g := &OpenAIGateway{client: client, model: "gpt-4o-mini", maxTokens: 1024}

		out, err := g.Generate(context.Background(), "sum column A", KindFormula)
		require.NoError(t, err)
		assert.Equal(t, "=SUM(A:A)", out)

		require.Len(t, client.got.Messages, 1)
		assert.Equal(t, openai.ChatMessageRoleUser, client.got.Messages[0].Role)
		assert.Contains(t, client.got.Messages[0].Content, `"sum column A"`)
		assert.Equal(t, "gpt-4o-mini", client.got.Model)
		assert.Equal(t, 1024, client.got.MaxTokens)
	})

	t.Run("transport failure maps to generation failure", func(t *testing.T) {
		t.Parallel()

		client := &stubCompletionClient{err: errors.New("boom")}
		g := &OpenAIGateway{client: client, model: "m", maxTokens: 10}

		_, err := g.Generate(context.Background(), "x", KindFormula)
		require.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("empty choices map to generation failure", func(t *testing.T) {
		t.Parallel()

		client := &stubCompletionClient{}
		g := &OpenAIGateway{client: client, model: "m", maxTokens: 10}

		_, err := g.Generate(context.Background(), "x", KindFormula)
		require.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("blank content maps to generation failure", func(t *testing.T) {
		t.Parallel()

		client := &stubCompletionClient{resp: completionWith("   ")}
		g := &OpenAIGateway{client: client, model: "m", maxTokens: 10}

		_, err := g.Generate(context.Background(), "x", KindFormula)
		require.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("unknown kind fails without calling the API", func(t *testing.T) {
		t.Parallel()

		client := &stubCompletionClient{resp: completionWith("x")}
		g := &OpenAIGateway{client: client, model: "m", maxTokens: 10}

		_, err := g.Generate(context.Background(), "x", OutputKind("slide"))
		require.ErrorIs(t, err, ErrUnknownOutputKind)
		assert.Empty(t, client.got.Messages)
	})
}
