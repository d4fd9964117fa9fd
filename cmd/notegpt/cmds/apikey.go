package cmds

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewSetAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-api-key [KEY]",
		Short: "Store the provider API key, asking for it when KEY is not given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				key, err = askAPIKey(viper.GetString("provider"))
				if err != nil {
					return err
				}
			}
			if err := store.Set(key); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "API key stored in %s\n", store.Path())
			return err
		},
	}
}

func NewClearAPIKeyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-api-key",
		Short: "Remove the stored provider API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newStore()
			if err != nil {
				return err
			}
			if err := store.Clear(); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key cleared")
			return err
		},
	}
}
