package completion

import (
	"github.com/pkg/errors"
)

// NewModel creates the client for provider. endpoint is required by Azure;
// for OpenAI it optionally replaces the API base URL, e.g. for a compatible
// server.
func NewModel(provider string, endpoint string, token string, model string, options ...Option) (StreamingModel, error) {
	switch provider {
	case ProviderOpenAI:
		if endpoint != "" {
			return NewOpenAIWithConfig(token, model, WithBaseURL(endpoint), options...), nil
		}
		return NewOpenAI(token, model, options...), nil
	case ProviderAzure:
		if endpoint == "" {
			return nil, errors.New("endpoint is required for azure")
		}
		return NewAzure(token, endpoint, model, options...), nil
	default:
		return nil, errors.Errorf("unknown provider: %s", provider)
	}
}
