package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared/constant"
)

// ErrMalformedResponse is returned when a provider answers but the generated
// text cannot be located in the response.
var ErrMalformedResponse = errors.New("unexpected model response format")

// RetryPolicy bounds how often a chat completion is retried on transient failures.
type RetryPolicy struct {
	Attempts uint
	Delay    time.Duration
}

// DefaultRetryPolicy retries twice with a one second base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, Delay: time.Second}
}

// OpenAIClient implements Client for the OpenAI chat completions API and
// compatible servers such as the Hugging Face router.
type OpenAIClient struct {
	client openai.Client
	config *Config
	retry  RetryPolicy
}

// OpenAIOption customizes an OpenAIClient.
type OpenAIOption func(*openAIOptions)

type openAIOptions struct {
	httpClient *http.Client
	retry      RetryPolicy
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) OpenAIOption {
	return func(o *openAIOptions) { o.httpClient = c }
}

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) OpenAIOption {
	return func(o *openAIOptions) { o.retry = p }
}

// NewOpenAIClient creates a client for config.BaseURL, or the OpenAI API when empty.
func NewOpenAIClient(config *Config, apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultConfig()
	}

	o := openAIOptions{retry: DefaultRetryPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retry.Attempts == 0 {
		o.retry.Attempts = 1
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		// Retries are handled by retry-go so every attempt is logged the same way.
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(config.BaseURL))
	}
	if o.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(o.httpClient))
	}

	return &OpenAIClient{
		client: openai.NewClient(reqOpts...),
		config: config,
		retry:  o.retry,
	}, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	text, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.1),
	})
	if err != nil {
		return "", err
	}
	return StripThinkBlocks(text), nil
}

// GenerateJSON asks for a JSON object at temperature zero
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	text, err := c.complete(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(modelName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(jsonSystemPrompt),
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{
				Type: constant.JSONObject("json_object"),
			},
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", err
	}
	return CleanModelJSON(text), nil
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client owns no long-lived resources.
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) complete(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	var content string
	err := retry.Do(
		func() error {
			completion, err := c.client.Chat.Completions.New(ctx, params)
			if err != nil {
				return err
			}
			if completion == nil || len(completion.Choices) == 0 {
				return retry.Unrecoverable(fmt.Errorf("%w: no choices in response", ErrMalformedResponse))
			}
			content = completion.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.retry.Attempts),
		retry.Delay(c.retry.Delay),
		retry.RetryIf(isRetryable),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", mapOpenAIError(err))
	}
	return content, nil
}

// isRetryable reports whether a failed completion is worth another attempt:
// transport errors, rate limits and server errors are, client errors are not.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrMalformedResponse) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}
	return true
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return fmt.Errorf("provider error (status %d): %s: %w", apiErr.StatusCode, apiErr.Message, err)
		}
		return fmt.Errorf("provider error (status %d): %w", apiErr.StatusCode, err)
	}
	return err
}
