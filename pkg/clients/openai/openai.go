package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/autovalue/internal/config"
)

// Sentinel errors the summary handler maps to user-facing messages.
var (
	ErrNotConfigured      = errors.New("azure openai credentials are not configured")
	ErrUnreachable        = errors.New("unable to connect to azure openai service")
	ErrInvalidAPIKey      = errors.New("invalid azure openai api key")
	ErrDeploymentNotFound = errors.New("azure openai deployment not found")
	ErrNoContent          = errors.New("no summary generated from ai model")
)

// Client defines the chat-completion operation used to generate car
// summaries.
type Client interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error)
	Configured() bool
	Deployment() string
}

// ChatRequest carries the messages and sampling parameters for one
// completion call.
type ChatRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatClient struct {
	httpClient *resty.Client
	url        string
	deployment string
	configured bool
}

// NewClient creates a configured Azure OpenAI chat-completion client bound
// to one deployment.
func NewClient(cfg config.OpenAIConfig) Client {
	client := resty.New().
		SetHeader("api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(30 * time.Second)

	base := strings.TrimSuffix(cfg.Endpoint, "/")
	url := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s", base, cfg.Deployment, cfg.APIVersion)

	return &chatClient{
		httpClient: client,
		url:        url,
		deployment: cfg.Deployment,
		configured: cfg.Configured(),
	}
}

type completionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Configured reports whether the deployment can be called.
func (c *chatClient) Configured() bool {
	return c.configured
}

// Deployment returns the deployment name answers are attributed to.
func (c *chatClient) Deployment() string {
	return c.deployment
}

// CreateChatCompletion runs one completion and returns the first choice's
// content with surrounding whitespace trimmed.
func (c *chatClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (string, error) {
	if !c.configured {
		return "", ErrNotConfigured
	}

	reqBody := completionRequest{
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	respBody := new(completionResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(respBody).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized:
		return "", ErrInvalidAPIKey
	case resp.StatusCode() == http.StatusNotFound:
		return "", ErrDeploymentNotFound
	case resp.StatusCode() >= http.StatusBadRequest:
		message := apiErr.Error.Message
		if message == "" {
			message = resp.String()
		}
		return "", fmt.Errorf("azure openai api error: %s", message)
	}

	if len(respBody.Choices) == 0 {
		return "", ErrNoContent
	}

	content := strings.TrimSpace(respBody.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoContent
	}

	return content, nil
}
