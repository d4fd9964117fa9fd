package cmds

import (
	"strings"

	"github.com/go-go-golems/notegpt/pkg/config"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/go-go-golems/notegpt/pkg/editor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const RoleUser = "user"

func NewNewUserMessageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new-user-message FILE",
		Short: "Append an empty user message to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			appendUserMessage(doc, viper.GetBool(config.KeyMessageHeader))
			return doc.Save()
		},
	}
}

func appendUserMessage(doc *editor.Document, messageHeader bool) {
	m := dialogue.NewMessage(RoleUser, "", messageHeader)
	doc.AppendLines(dialogue.FormatMessage(m), true)
}

func NewNewDialogueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new-dialogue FILE",
		Short: "Start a dialogue in FILE with the system prompt and an empty user message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			if !doc.IsEmpty() && !force {
				return errors.Errorf("%s is not empty, use --force to overwrite it", args[0])
			}

			cfg := &config.Config{
				Model:         viper.GetString(config.KeyModel),
				SystemPrompt:  viper.GetString(config.KeySystemPrompt),
				MessageHeader: viper.GetBool(config.KeyMessageHeader),
			}
			if err := newDialogue(doc, cfg); err != nil {
				return err
			}
			return doc.Save()
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite a non-empty file")
	return cmd
}

// newDialogue replaces the content of doc with a system message holding the
// rendered system prompt, followed by an empty user message.
func newDialogue(doc *editor.Document, cfg *config.Config) error {
	prompt, err := cfg.RenderSystemPrompt()
	if err != nil {
		return err
	}
	system := dialogue.NewMessage(dialogue.RoleSystem, prompt, cfg.MessageHeader)
	doc.SetText(strings.Join(dialogue.FormatMessage(system), doc.Delimiter()))
	appendUserMessage(doc, cfg.MessageHeader)
	return nil
}
