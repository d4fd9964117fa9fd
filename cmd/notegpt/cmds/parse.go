package cmds

import (
	"context"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/go-go-golems/glazed/pkg/middlewares"
	"github.com/go-go-golems/glazed/pkg/settings"
	"github.com/go-go-golems/glazed/pkg/types"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/go-go-golems/notegpt/pkg/document"
	"github.com/pkg/errors"
)

// dialogueRows returns one row per message, system message first. Absent
// content is a nil cell, so it stays distinct from empty content.
func dialogueRows(d *dialogue.Dialogue) []types.Row {
	messages := d.Messages
	if d.System != nil {
		messages = append([]dialogue.Message{*d.System}, messages...)
	}

	var temperature interface{}
	if d.Options.Temperature != nil {
		temperature = *d.Options.Temperature
	}

	ret := make([]types.Row, 0, len(messages))
	for i, m := range messages {
		var content interface{}
		if m.Content != nil {
			content = *m.Content
		}
		ret = append(ret, types.NewRow(
			types.MRP("index", i),
			types.MRP("role", m.Options.Role),
			types.MRP("content", content),
			types.MRP("model", d.Options.Model),
			types.MRP("temperature", temperature),
			types.MRP("skip_message_header", d.Options.SkipMessageHeader),
		))
	}
	return ret
}

func sectionRows(sections []document.Section) []types.Row {
	ret := make([]types.Row, 0, len(sections))
	for i, s := range sections {
		ret = append(ret, types.NewRow(
			types.MRP("index", i),
			types.MRP("kind", string(s.Kind)),
			types.MRP("text", strings.Join(s.Text, "\n")),
			types.MRP("value", s.Payload()),
		))
	}
	return ret
}

type ParseCommand struct {
	*cmds.CommandDescription
}

var _ cmds.GlazeCommand = (*ParseCommand)(nil)

func NewParseCommand() (*ParseCommand, error) {
	glazedLayer, err := settings.NewGlazedParameterLayers()
	if err != nil {
		return nil, err
	}
	return &ParseCommand{
		CommandDescription: cmds.NewCommandDescription(
			"parse",
			cmds.WithShort("Print the dialogue in a file"),
			cmds.WithFlags(
				parameters.NewParameterDefinition(
					"sections",
					parameters.ParameterTypeBool,
					parameters.WithHelp("Print the document sections instead of the dialogue"),
					parameters.WithDefault(false),
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

func (c *ParseCommand) RunIntoGlazeProcessor(
	ctx context.Context,
	parsedLayers *layers.ParsedLayers,
	gp middlewares.Processor,
) error {
	ps := parsedLayers.GetDataMap()
	path, ok := ps["file"].(string)
	if !ok {
		return errors.New("missing or invalid file argument")
	}
	sectionsOnly, _ := ps["sections"].(bool)

	doc, err := openDocument(path)
	if err != nil {
		return err
	}

	var rows []types.Row
	if sectionsOnly {
		sections, err := document.Tokenize(doc.Lines())
		if err != nil {
			return errors.Wrapf(err, "could not parse %s", path)
		}
		rows = sectionRows(sections)
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		d, err := dialogue.Parse(doc.Lines(), cfg.BaseOptions())
		if err != nil {
			return errors.Wrapf(err, "could not parse %s", path)
		}
		rows = dialogueRows(d)
	}

	for _, row := range rows {
		if err := gp.AddRow(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
