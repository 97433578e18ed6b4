package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// contentGenerator produces exercise description markdown with the OpenAI
// API.
type contentGenerator struct {
	client openai.Client
}

func newContentGenerator(openaiAPIKey string) *contentGenerator {
	return &contentGenerator{
		client: openai.NewClient(option.WithAPIKey(openaiAPIKey)),
	}
}

// Generate writes a markdown description for the named exercise.
func (cg *contentGenerator) Generate(ctx context.Context, ex ExerciseTemplate) (string, error) {
	if ex.Name == "" {
		return "", errors.New("exercise name cannot be empty")
	}

	prompt := fmt.Sprintf(`Write a markdown description for the exercise "%s"
(difficulty %s, around %d minutes per session) following this exact structure:

## Instructions
[Provide 3-5 numbered steps explaining how to perform the exercise correctly]

## Common Mistakes
[List 3-4 common form errors as bullet points]

Important guidelines:
- Instructions should be clear, concise, and focus on proper form
- Use simple, direct language that beginners can understand
- Highlight safety considerations where relevant

The description should be comprehensive yet concise, totaling around 150-200 words.`,
		ex.Name, ex.Difficulty, ex.DurationMinutes)

	chat, err := cg.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModelGPT4o,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	markdown := strings.TrimSpace(chat.Choices[0].Message.Content)
	if markdown == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return markdown, nil
}

// fallbackDescription is used when no generated content is available.
func fallbackDescription(ex ExerciseTemplate) string {
	return fmt.Sprintf(
		"## %s\n\nDifficulty: %s. Planned duration: %d minutes per session.\n",
		ex.Name, ex.Difficulty, ex.DurationMinutes)
}
