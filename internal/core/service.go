package core

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/soamn/aterna/internal/config"
	"github.com/soamn/aterna/internal/models"
)

// NoResponse is shown when the endpoint answers without a usable choice.
const NoResponse = "No response"

// Client is the transport used by the session: one chat completion and one
// model listing, each a single request/response round trip.
type Client interface {
	Complete(ctx context.Context, req models.PendingRequest) (string, error)
	ListModels(ctx context.Context, cred config.Credential) ([]string, error)
}

// ChatService talks to an OpenAI-compatible endpoint.
type ChatService struct {
	baseURL string
	logger  *zap.Logger
}

func NewChatService(baseURL string, logger *zap.Logger) *ChatService {
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{baseURL: baseURL, logger: logger}
}

// client builds a go-openai client for the given key. Keys are resolved per
// request so one service serves any credential.
func (cs *ChatService) client(cred config.Credential) *openai.Client {
	clientConfig := openai.DefaultConfig(cred.Value)
	clientConfig.BaseURL = cs.baseURL
	return openai.NewClientWithConfig(clientConfig)
}

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (cs *ChatService) Complete(ctx context.Context, req models.PendingRequest) (string, error) {
	cs.logger.Debug("sending chat completion",
		zap.Uint64("seq", req.Seq),
		zap.String("model", req.Model),
		zap.Int("prompt_len", len(req.Prompt)),
		zap.Bool("credential_missing", req.Credential.IsMissing()))

	resp, err := cs.client(req.Credential).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		cs.logger.Warn("chat completion returned no choices", zap.Uint64("seq", req.Seq))
		return NoResponse, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ListModels returns the model identifiers in the order the endpoint lists them.
func (cs *ChatService) ListModels(ctx context.Context, cred config.Credential) ([]string, error) {
	list, err := cs.client(cred).ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	cs.logger.Debug("fetched model catalog", zap.Int("count", len(ids)))
	return ids, nil
}
