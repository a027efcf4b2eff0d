package embeddings

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedder embeds text with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	Client *openai.Client
	Model  string
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.Client.CreateEmbeddings(
		ctx,
		openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(e.Model),
			Input: text,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embeddings response has no data")
	}
	return resp.Data[0].Embedding, nil
}
