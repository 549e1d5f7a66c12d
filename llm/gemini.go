package llm

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/ostier/recap/prompt"
)

type geminiAdapter struct {
	key string
}

func newGeminiAdapter(key string) Adapter {
	return &geminiAdapter{key: key}
}

func (a *geminiAdapter) Complete(ctx context.Context, model string, messages prompt.Messages) (Stream, error) {
	return newChunkStream(ctx, func(ctx context.Context, emit func(string) error) error {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  a.key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return errors.Wrap(ErrUnavailable, err.Error())
		}

		cfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(messages.System, genai.RoleUser),
		}
		for resp, err := range client.Models.GenerateContentStream(ctx, model, genai.Text(messages.User), cfg) {
			if err != nil {
				return classifyGeminiError(err)
			}
			if text := resp.Text(); text != "" {
				if err := emit(text); err != nil {
					return err
				}
			}
		}
		return nil
	}), nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return wrapStatus(apiErr.Code, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.Wrap(ErrUnavailable, err.Error())
}
