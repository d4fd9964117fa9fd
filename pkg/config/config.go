package config

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/go-go-golems/notegpt/pkg/completion"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/go-go-golems/notegpt/pkg/helpers"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const DefaultSystemPrompt = "You are ChatGPT, a large language model trained by OpenAI. " +
	"Follow the user's instructions carefully. Respond using markdown."

const (
	KeyProvider      = "provider"
	KeyModel         = "model"
	KeyTemperature   = "temperature"
	KeyEndpoint      = "endpoint"
	KeyMessageHeader = "message-header"
	KeyProxyURL      = "proxy-url"
	KeySystemPrompt  = "system-prompt"
	KeyAPIKey        = "api-key"
)

var ErrConfiguration = errors.New("invalid configuration")

type Config struct {
	Provider      string   `yaml:"provider"`
	Model         string   `yaml:"model"`
	Temperature   *float64 `yaml:"temperature,omitempty"`
	Endpoint      string   `yaml:"endpoint,omitempty"`
	MessageHeader bool     `yaml:"message-header"`
	ProxyURL      string   `yaml:"proxy-url,omitempty"`
	SystemPrompt  string   `yaml:"system-prompt"`
	APIKey        string   `yaml:"-"`
}

// SetDefaults registers the defaults of the optional keys on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProvider, completion.ProviderOpenAI)
	v.SetDefault(KeyMessageHeader, false)
	v.SetDefault(KeySystemPrompt, DefaultSystemPrompt)
}

// Load reads the configuration from v.
func Load(v *viper.Viper) (*Config, error) {
	ret := &Config{
		Provider:      v.GetString(KeyProvider),
		Model:         v.GetString(KeyModel),
		Endpoint:      v.GetString(KeyEndpoint),
		MessageHeader: v.GetBool(KeyMessageHeader),
		ProxyURL:      v.GetString(KeyProxyURL),
		SystemPrompt:  v.GetString(KeySystemPrompt),
		APIKey:        v.GetString(KeyAPIKey),
	}
	if v.IsSet(KeyTemperature) {
		ret.Temperature = helpers.Float64Pointer(v.GetFloat64(KeyTemperature))
	}

	if ret.Provider == "" {
		return nil, errors.Wrap(ErrConfiguration, "provider is required")
	}
	switch ret.Provider {
	case completion.ProviderOpenAI:
	case completion.ProviderAzure:
		if ret.Endpoint == "" {
			return nil, errors.Wrap(ErrConfiguration, "endpoint is required for azure")
		}
	default:
		return nil, errors.Wrapf(ErrConfiguration, "unknown provider %s", ret.Provider)
	}
	if ret.Model == "" {
		return nil, errors.Wrap(ErrConfiguration, "model is required")
	}

	return ret, nil
}

// BaseOptions are the dialogue options documents start from.
func (c *Config) BaseOptions() dialogue.BaseOptions {
	return dialogue.BaseOptions{
		Model:               c.Model,
		Temperature:         c.Temperature,
		SkipMessageHeader:   c.MessageHeader,
		SystemPromptDefault: c.SystemPrompt,
	}
}

// RenderSystemPrompt expands the system prompt as a template with the sprig
// functions available, e.g. {{ now | date "2006-01-02" }}.
func (c *Config) RenderSystemPrompt() (string, error) {
	tmpl, err := template.New("system-prompt").Funcs(sprig.TxtFuncMap()).Parse(c.SystemPrompt)
	if err != nil {
		return "", errors.Wrap(err, "could not parse system prompt")
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, c); err != nil {
		return "", errors.Wrap(err, "could not render system prompt")
	}
	return buf.String(), nil
}
