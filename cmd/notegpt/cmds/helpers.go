package cmds

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/notegpt/pkg/config"
	"github.com/go-go-golems/notegpt/pkg/editor"
	"github.com/go-go-golems/notegpt/pkg/secrets"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tcnksm/go-input"
)

var fs = afero.NewOsFs()

func RegisterCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		NewCompleteCommand(),
		NewNewUserMessageCommand(),
		NewNewDialogueCommand(),
		NewSetAPIKeyCommand(),
		NewClearAPIKeyCommand(),
	)

	parseCmdInstance, err := NewParseCommand()
	cobra.CheckErr(err)
	parseCommand, err := cli.BuildCobraCommandFromGlazeCommand(parseCmdInstance)
	cobra.CheckErr(err)
	rootCmd.AddCommand(parseCommand)

	tokensCmdInstance, err := NewTokensCommand()
	cobra.CheckErr(err)
	tokensCommand, err := cli.BuildCobraCommandFromGlazeCommand(tokensCmdInstance)
	cobra.CheckErr(err)
	rootCmd.AddCommand(tokensCommand)
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

func newStore() (*secrets.Store, error) {
	path, err := secrets.DefaultPath()
	if err != nil {
		return nil, err
	}
	return secrets.NewStore(fs, path), nil
}

func openDocument(path string) (*editor.Document, error) {
	return editor.Open(fs, path)
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func askAPIKey(provider string) (string, error) {
	ui := &input.UI{
		Writer: os.Stderr,
		Reader: os.Stdin,
	}
	query := fmt.Sprintf("Enter your %s API key", provider)
	answer, err := ui.Ask(query, &input.Options{
		Required:  true,
		Loop:      true,
		HideOrder: true,
		Mask:      true,
		ValidateFunc: func(answer string) error {
			if strings.TrimSpace(answer) == "" {
				return errors.New("the API key must not be empty")
			}
			return nil
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "could not read API key")
	}
	return strings.TrimSpace(answer), nil
}

// resolveAPIKey returns the configured key, else the stored one. A missing
// key is asked for, and stored, when running in a terminal.
func resolveAPIKey(cfg *config.Config, store *secrets.Store) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}

	key, err := store.Load()
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, secrets.ErrNoAPIKey) || !isInteractive() {
		return "", err
	}

	key, err = askAPIKey(cfg.Provider)
	if err != nil {
		return "", err
	}
	if err := store.Set(key); err != nil {
		return "", err
	}
	log.Info().Str("path", store.Path()).Msg("Stored API key")
	return key, nil
}
