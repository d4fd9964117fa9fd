package completion

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	go_openai "github.com/sashabaranov/go-openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"

	AzureAPIVersion = "2023-08-01-preview"
)

// OpenAILike talks to any endpoint that speaks the OpenAI chat completions
// protocol. Use NewOpenAI or NewAzure to build one.
type OpenAILike struct {
	provider   string
	model      string
	client     *go_openai.Client
	logger     zerolog.Logger
	httpClient *http.Client
}

var _ StreamingModel = (*OpenAILike)(nil)

type Option func(*OpenAILike)

// WithLogger sets the sink request failures are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *OpenAILike) {
		o.logger = logger
	}
}

// WithHTTPClient sets the client used for requests, e.g. one returned by
// NewHTTPClient for proxy support.
func WithHTTPClient(client *http.Client) Option {
	return func(o *OpenAILike) {
		o.httpClient = client
	}
}

// WithBaseURL overrides the OpenAI API base URL.
func WithBaseURL(baseURL string) func(*go_openai.ClientConfig) {
	return func(c *go_openai.ClientConfig) {
		c.BaseURL = baseURL
	}
}

func newOpenAILike(provider string, model string, config go_openai.ClientConfig, options ...Option) *OpenAILike {
	ret := &OpenAILike{
		provider: provider,
		model:    model,
		logger:   zerolog.Nop(),
	}
	for _, o := range options {
		o(ret)
	}
	if ret.httpClient != nil {
		config.HTTPClient = ret.httpClient
	}
	ret.client = go_openai.NewClientWithConfig(config)
	ret.logger = ret.logger.With().Str("provider", provider).Str("model", model).Logger()
	return ret
}

func NewOpenAI(token string, model string, options ...Option) *OpenAILike {
	return newOpenAILike(ProviderOpenAI, model, go_openai.DefaultConfig(token), options...)
}

// NewOpenAIWithConfig is NewOpenAI with extra changes applied to the client
// configuration, used to point the client at another base URL.
func NewOpenAIWithConfig(token string, model string, configure func(*go_openai.ClientConfig), options ...Option) *OpenAILike {
	config := go_openai.DefaultConfig(token)
	if configure != nil {
		configure(&config)
	}
	return newOpenAILike(ProviderOpenAI, model, config, options...)
}

// NewAzure creates a client for an Azure OpenAI resource. model is used as the
// deployment name.
func NewAzure(token string, endpoint string, model string, options ...Option) *OpenAILike {
	config := go_openai.DefaultAzureConfig(token, endpoint)
	config.APIVersion = AzureAPIVersion
	config.AzureModelMapperFunc = func(model string) string {
		return model
	}
	return newOpenAILike(ProviderAzure, model, config, options...)
}

func (o *OpenAILike) makeRequest(params CompletionParams, stream bool) go_openai.ChatCompletionRequest {
	messages := make([]go_openai.ChatCompletionMessage, 0, len(params.Messages)+1)
	if params.System != "" {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: params.System,
		})
	}
	for _, m := range params.Messages {
		messages = append(messages, go_openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := go_openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: messages,
		Stream:   stream,
	}
	if params.Temperature != nil {
		req.Temperature = float32(*params.Temperature)
	}
	return req
}

func (o *OpenAILike) reportError(err error) error {
	e := o.logger.Error().Err(err)
	var apiErr *go_openai.APIError
	var reqErr *go_openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		e = e.Int("status", apiErr.HTTPStatusCode).Str("body", apiErr.Message)
	case errors.As(err, &reqErr):
		e = e.Int("status", reqErr.HTTPStatusCode)
	}
	e.Msg("chat completion request failed")
	return errors.Wrapf(err, "%s API error", o.provider)
}

func (o *OpenAILike) Completions(ctx context.Context, params CompletionParams) (*Message, error) {
	req := o.makeRequest(params, false)
	o.logger.Debug().Int("messages", len(req.Messages)).Msg("sending chat completion request")

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, o.reportError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("unexpected response: no choices")
	}

	msg := resp.Choices[0].Message
	return &Message{
		Role:    msg.Role,
		Content: msg.Content,
	}, nil
}

func (o *OpenAILike) CompletionsStreaming(ctx context.Context, params CompletionParams, cb DeltaFunc) error {
	req := o.makeRequest(params, true)
	o.logger.Debug().Int("messages", len(req.Messages)).Msg("sending streaming chat completion request")

	stream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return o.reportError(err)
	}
	defer stream.Close()

	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return o.reportError(err)
		}

		if len(response.Choices) == 0 {
			continue
		}
		choice := response.Choices[0]
		if choice.FinishReason == go_openai.FinishReasonStop {
			continue
		}

		delta := MessageDelta{}
		if choice.Delta.Role != "" {
			role := choice.Delta.Role
			delta.Role = &role
		}
		if choice.Delta.Content != "" {
			content := choice.Delta.Content
			delta.Content = &content
		}
		if delta.Role == nil && delta.Content == nil {
			continue
		}
		if err := cb(delta); err != nil {
			return err
		}
	}
}
