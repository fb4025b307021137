package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davedittrich/ocd/internal/config"
)

// Client wraps the OpenAI SDK client with convenience helpers and per-call
// timeouts. Responses are converted to small local structs so commands do
// not depend on SDK types.
type Client struct {
	// oai is the underlying SDK client.
	oai openai.Client

	// callTimeout is the default timeout for individual API calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for API calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// apiKeyEnvVar supplies the API key; it is never read from settings files.
const apiKeyEnvVar = "OPENAI_API_KEY"

// errNoCompletion is returned when the API produced no choices.
var errNoCompletion = errors.New("no completion produced")

// New creates a client for the given API base URL and organization.
// The API key is taken from the OPENAI_API_KEY environment variable by the
// underlying SDK.
func New(apiBase, organization string, opts ...Option) *Client {
	requestOptions := make([]option.RequestOption, 0, 2)

	if apiBase != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(apiBase))
	}

	if organization != "" {
		requestOptions = append(requestOptions, option.WithOrganization(organization))
	}

	client := &Client{
		oai:         openai.NewClient(requestOptions...),
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// HasAPIKey reports whether an API key is present in the environment.
func HasAPIKey() bool {
	return os.Getenv(apiKeyEnvVar) != ""
}

// IsAuthenticationError reports whether err is an API authentication failure.
func IsAuthenticationError(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// ListModels retrieves the available models.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	page, err := c.oai.Models.List(callCtx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	models := make([]Model, 0, len(page.Data))
	for _, m := range page.Data {
		models = append(models, Model{
			ID:      m.ID,
			Created: m.Created,
			OwnedBy: m.OwnedBy,
		})
	}

	return models, nil
}

// RetrieveModel fetches a single model by its identifier.
func (c *Client) RetrieveModel(ctx context.Context, modelID string) (*Model, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	m, err := c.oai.Models.Get(callCtx, modelID)
	if err != nil {
		return nil, fmt.Errorf("retrieve model %s: %w", modelID, err)
	}

	return &Model{
		ID:      m.ID,
		Created: m.Created,
		OwnedBy: m.OwnedBy,
	}, nil
}

// CreateCompletion generates a text completion from a prompt.
func (c *Client) CreateCompletion(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	params := openai.CompletionNewParams{
		Model: openai.CompletionNewParamsModel(req.ModelID),
		Prompt: openai.CompletionNewParamsPromptUnion{
			OfString: openai.String(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}

	if req.Suffix != "" {
		params.Suffix = openai.String(req.Suffix)
	}

	if req.Echo {
		params.Echo = openai.Bool(true)
	}

	response, err := c.oai.Completions.New(callCtx, params)
	if err != nil {
		return nil, fmt.Errorf("create completion: %w", err)
	}

	return fromCompletion(response)
}

// CreateChat generates a chat completion from an instruction and input.
// It backs the edit and docstring commands now that the dedicated edits
// endpoint is gone.
func (c *Client) CreateChat(ctx context.Context, req *ChatRequest) (*Completion, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.Instruction != "" {
		messages = append(messages, openai.SystemMessage(req.Instruction))
	}

	messages = append(messages, openai.UserMessage(req.Input))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(req.ModelID),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
	}

	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(req.MaxTokens)
	}

	if req.N > 1 {
		params.N = openai.Int(req.N)
	}

	response, err := c.oai.Chat.Completions.New(callCtx, params)
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}

	return fromChatCompletion(response)
}

// CreateImages generates one or more images from a prompt.
func (c *Client) CreateImages(ctx context.Context, req *ImageRequest) ([]Image, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	params := openai.ImageGenerateParams{
		Prompt:         req.Prompt,
		Size:           openai.ImageGenerateParamsSize(req.Size),
		ResponseFormat: openai.ImageGenerateParamsResponseFormat(req.ResponseFormat),
	}

	if req.N > 0 {
		params.N = openai.Int(req.N)
	}

	response, err := c.oai.Images.Generate(callCtx, params)
	if err != nil {
		return nil, fmt.Errorf("create images: %w", err)
	}

	images := make([]Image, 0, len(response.Data))
	for _, img := range response.Data {
		images = append(images, Image{
			B64JSON: img.B64JSON,
			URL:     img.URL,
		})
	}

	return images, nil
}

// ListFineTuningJobs retrieves fine-tuning jobs.
func (c *Client) ListFineTuningJobs(ctx context.Context) ([]FineTuningJob, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	page, err := c.oai.FineTuning.Jobs.List(callCtx, openai.FineTuningJobListParams{})
	if err != nil {
		return nil, fmt.Errorf("list fine-tuning jobs: %w", err)
	}

	jobs := make([]FineTuningJob, 0, len(page.Data))
	for _, job := range page.Data {
		jobs = append(jobs, FineTuningJob{
			ID:             job.ID,
			Model:          job.Model,
			FineTunedModel: job.FineTunedModel,
			Status:         string(job.Status),
			CreatedAt:      job.CreatedAt,
		})
	}

	return jobs, nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
