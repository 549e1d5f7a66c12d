package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/pkg/errors"

	"github.com/ostier/recap/prompt"
)

// openAIChatAdapter talks the OpenAI chat completions protocol. It serves
// OpenAI itself and every provider exposing a compatible endpoint, which
// is most of the table.
type openAIChatAdapter struct {
	client openai.Client
}

func newOpenAIChatAdapter(baseURL, key string) Adapter {
	// Retrying is the orchestrator's job, not the SDK's.
	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}
	return &openAIChatAdapter{client: openai.NewClient(opts...)}
}

func (a *openAIChatAdapter) Complete(ctx context.Context, model string, messages prompt.Messages) (Stream, error) {
	return newChunkStream(ctx, func(ctx context.Context, emit func(string) error) error {
		stream := a.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
			Model: openai.ChatModel(model),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(messages.System),
				openai.UserMessage(messages.User),
			},
		})
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				if err := emit(delta); err != nil {
					return err
				}
			}
		}
		return classifyOpenAIError(stream.Err())
	}), nil
}

// classifyOpenAIError maps SDK errors onto the shared failure classes.
func classifyOpenAIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return wrapStatus(apiErr.StatusCode, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(ErrUnavailable, err.Error())
}
