package cmds

import (
	"context"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
)

type messageTokens struct {
	Role   string
	Tokens int
}

type tokenCount struct {
	Model    string
	Codec    string
	Messages []messageTokens
	Total    int
}

func getCodec(model string, encoding string) (tokenizer.Codec, error) {
	c, err := tokenizer.ForModel(tokenizer.Model(model))
	if err == nil {
		return c, nil
	}
	log.Debug().Err(err).Str("model", model).Str("encoding", encoding).Msg("Unknown model, falling back to encoding")

	c, err = tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, errors.Wrapf(err, "error creating tokenizer for %s", encoding)
	}
	return c, nil
}

// countTokens counts the content tokens of the system prompt and every
// message of d.
func countTokens(d *dialogue.Dialogue, codec tokenizer.Codec) (*tokenCount, error) {
	ret := &tokenCount{
		Model: d.Options.Model,
		Codec: codec.GetName(),
	}

	messages := d.Messages
	if d.System != nil {
		messages = append([]dialogue.Message{*d.System}, messages...)
	}
	for _, m := range messages {
		ids, _, err := codec.Encode(m.ContentOrEmpty())
		if err != nil {
			return nil, errors.Wrap(err, "error encoding message")
		}
		ret.Messages = append(ret.Messages, messageTokens{Role: m.Options.Role, Tokens: len(ids)})
		ret.Total += len(ids)
	}
	return ret, nil
}

// Rows returns one row per message, with the running total.
func (tc *tokenCount) Rows() []types.Row {
	ret := make([]types.Row, 0, len(tc.Messages))
	total := 0
	for i, m := range tc.Messages {
		total += m.Tokens
		ret = append(ret, types.NewRow(
			types.MRP("index", i),
			types.MRP("role", m.Role),
			types.MRP("tokens", m.Tokens),
			types.MRP("total", total),
			types.MRP("model", tc.Model),
			types.MRP("codec", tc.Codec),
		))
	}
	return ret
}

type TokensCommand struct {
	*cmds.CommandDescription
}

var _ cmds.GlazeCommand = (*TokensCommand)(nil)

func NewTokensCommand() (*TokensCommand, error) {
	glazedLayer, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	return &TokensCommand{
		CommandDescription: cmds.NewCommandDescription(
			"tokens",
			cmds.WithShort("Count the tokens of the dialogue in a file"),
			cmds.WithFlags(
				parameters.NewParameterDefinition(
					"codec",
					parameters.ParameterTypeString,
					parameters.WithHelp("Encoding used when the model is unknown"),
					parameters.WithDefault(string(tokenizer.Cl100kBase)),
				),
			),
			cmds.WithArguments(
				parameters.NewParameterDefinition(
					"file",
					parameters.ParameterTypeString,
					parameters.WithHelp("Dialogue file"),
					parameters.WithRequired(true),
				),
			),
			cmds.WithLayersList(glazedLayer),
		),
	}, nil
}

func (c *TokensCommand) RunIntoGlazeProcessor(
	ctx context.Context,
	parsedLayers *layers.ParsedLayers,
	gp middlewares.Processor,
) error {
	ps := parsedLayers.GetDataMap()
	path, ok := ps["file"].(string)
	if !ok {
		return errors.New("missing or invalid file argument")
	}
	encoding, ok := ps["codec"].(string)
	if !ok {
		encoding = string(tokenizer.Cl100kBase)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	doc, err := openDocument(path)
	if err != nil {
		return err
	}
	d, err := dialogue.Parse(doc.Lines(), cfg.BaseOptions())
	if err != nil {
		return errors.Wrapf(err, "could not parse %s", path)
	}

	codec, err := getCodec(d.Options.Model, encoding)
	if err != nil {
		return err
	}
	count, err := countTokens(d, codec)
	if err != nil {
		return err
	}

	for _, row := range count.Rows() {
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
