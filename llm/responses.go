package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"

	"github.com/ostier/recap/prompt"
)

// responsesAdapter uses the OpenAI Responses API instead of chat
// completions. Selected with the openai-resp provider name.
type responsesAdapter struct {
	client openai.Client
}

func newResponsesAdapter(key string) Adapter {
	return &responsesAdapter{client: openai.NewClient(option.WithAPIKey(key), option.WithMaxRetries(0))}
}

func (a *responsesAdapter) Complete(ctx context.Context, model string, messages prompt.Messages) (Stream, error) {
	return newChunkStream(ctx, func(ctx context.Context, emit func(string) error) error {
		stream := a.client.Responses.NewStreaming(ctx, responses.ResponseNewParams{
			Model:        shared.ResponsesModel(model),
			Instructions: openai.String(messages.System),
			Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(messages.User)},
		})
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			if event.Type != "response.output_text.delta" {
				continue
			}
			if err := emit(event.Delta); err != nil {
				return err
			}
		}
		return classifyOpenAIError(stream.Err())
	}), nil
}
