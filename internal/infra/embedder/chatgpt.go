package embedder

import (
	"context"
	"fmt"
	"strings"

	"github.com/silkmart/support-assistant/internal/domain/assistant"
	"github.com/silkmart/support-assistant/internal/infra/llm/chatgpt"
	apperrors "github.com/silkmart/support-assistant/pkg/errors"
)

// ChatGPTEmbedder calls an OpenAI-compatible embeddings API.
type ChatGPTEmbedder struct {
	client *chatgpt.Client
	model  string
	dims   int
}

// NewChatGPTEmbedder constructs the embedder. dims must match the vector
// column dimension of the knowledge store.
func NewChatGPTEmbedder(client *chatgpt.Client, model string, dims int) *ChatGPTEmbedder {
	return &ChatGPTEmbedder{
		client: client,
		model:  strings.TrimSpace(model),
		dims:   dims,
	}
}

// Embed implements assistant.EmbeddingProvider.
func (e *ChatGPTEmbedder) Embed(ctx context.Context, text string) (assistant.Embedding, error) {
	input := strings.TrimSpace(text)
	if input == "" {
		return assistant.Embedding{}, apperrors.Wrap(apperrors.KindInvalidInput, "cannot embed empty text", nil)
	}
	resp, err := e.client.CreateEmbedding(ctx, chatgpt.EmbeddingRequest{
		Model: e.model,
		Input: []string{input},
	})
	if err != nil {
		return assistant.Embedding{}, apperrors.Wrap(apperrors.KindEmbedding, "embedding request failed", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return assistant.Embedding{}, apperrors.Wrap(apperrors.KindEmbedding, "embedding response empty", nil)
	}
	vector := resp.Data[0].Embedding
	if len(vector) != e.dims {
		return assistant.Embedding{}, apperrors.Wrap(apperrors.KindConfig,
			fmt.Sprintf("embedding dimension mismatch: got %d, configured %d", len(vector), e.dims), nil)
	}
	out := make([]float32, len(vector))
	copy(out, vector)
	return assistant.Embedding{Vector: out}, nil
}

// Dimensions implements assistant.EmbeddingProvider.
func (e *ChatGPTEmbedder) Dimensions() int {
	return e.dims
}

var _ assistant.EmbeddingProvider = (*ChatGPTEmbedder)(nil)
