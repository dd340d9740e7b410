package translate

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Vovarama1992/speakmosaic/internal/languages"
)

const translatePrompt = "You are a translator. Translate the user's message into %s. " +
	"Reply with the translation only, without quotes or commentary."

// OpenAITranslator asks a chat model for the translation.
type OpenAITranslator struct {
	client   *openai.Client
	model    string
	registry *languages.Registry
}

func NewOpenAITranslator(cfg openai.ClientConfig, model string, registry *languages.Registry) *OpenAITranslator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAITranslator{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		registry: registry,
	}
}

func (c *OpenAITranslator) Translate(ctx context.Context, text string, target languages.Code) (string, error) {
	name, ok := c.registry.Name(target)
	if !ok {
		name = string(target)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: fmt.Sprintf(translatePrompt, name)},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", analyzeOpenAIError(err), err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResult
	}
	return resp.Choices[0].Message.Content, nil
}

// analyzeOpenAIError turns a status code into something an operator can act on.
func analyzeOpenAIError(err error) string {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "status code: 401"):
		return "invalid OpenAI API key"
	case strings.Contains(msg, "status code: 404"):
		return "model not found"
	case strings.Contains(msg, "status code: 429"):
		return "OpenAI rate limit exceeded"
	case strings.Contains(msg, "status code: 400") && strings.Contains(msg, "model"):
		return "wrong model name"
	case strings.Contains(msg, "status code: 400"):
		return "bad request to OpenAI"
	case strings.Contains(msg, "status code: 500"):
		return "OpenAI internal error"
	}
	return "unknown OpenAI error"
}
