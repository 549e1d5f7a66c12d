package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"

	"github.com/ostier/recap/prompt"
)

// Claude models cap output hard; this leaves room for long summaries.
const anthropicMaxTokens = 8192

type anthropicAdapter struct {
	client anthropic.Client
}

func newAnthropicAdapter(key string) Adapter {
	return &anthropicAdapter{client: anthropic.NewClient(option.WithAPIKey(key), option.WithMaxRetries(0))}
}

func (a *anthropicAdapter) Complete(ctx context.Context, model string, messages prompt.Messages) (Stream, error) {
	return newChunkStream(ctx, func(ctx context.Context, emit func(string) error) error {
		stream := a.client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: anthropicMaxTokens,
			System:    []anthropic.TextBlockParam{{Text: messages.System}},
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(messages.User)),
			},
		})
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			deltaEvent, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
			if !ok {
				continue
			}
			textDelta, ok := deltaEvent.Delta.AsAny().(anthropic.TextDelta)
			if !ok {
				continue
			}
			if err := emit(textDelta.Text); err != nil {
				return err
			}
		}
		return classifyAnthropicError(stream.Err())
	}), nil
}

func classifyAnthropicError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return wrapStatus(apiErr.StatusCode, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(ErrUnavailable, err.Error())
}
