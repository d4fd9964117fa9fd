package cmds

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/go-go-golems/notegpt/pkg/completion"
	"github.com/go-go-golems/notegpt/pkg/dialogue"
	"github.com/go-go-golems/notegpt/pkg/editor"
	"github.com/go-go-golems/notegpt/pkg/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

type completeSettings struct {
	Stream        bool
	MessageHeader bool
	Echo          io.Writer
	Verbose       bool
}

func NewCompleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "Append the model's answer to the dialogue in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			noStream, _ := cmd.Flags().GetBool("no-stream")
			print_, _ := cmd.Flags().GetBool("print")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			store, err := newStore()
			if err != nil {
				return err
			}

			doc, err := openDocument(args[0])
			if err != nil {
				return err
			}
			d, err := dialogue.Parse(doc.Lines(), cfg.BaseOptions())
			if err != nil {
				return errors.Wrapf(err, "could not parse %s", args[0])
			}

			apiKey, err := resolveAPIKey(cfg, store)
			if err != nil {
				return err
			}
			httpClient, err := completion.NewHTTPClient(cfg.ProxyURL)
			if err != nil {
				return err
			}
			model, err := completion.NewModel(
				cfg.Provider, cfg.Endpoint, apiKey, d.Options.Model,
				completion.WithLogger(log.Logger),
				completion.WithHTTPClient(httpClient),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			settings := completeSettings{
				Stream:        !noStream,
				MessageHeader: cfg.MessageHeader,
				Verbose:       viper.GetBool("verbose"),
			}
			if print_ {
				settings.Echo = cmd.OutOrStdout()
			}

			params := dialogue.WithDialogue(completion.CompletionParams{}, d)
			runErr := runCompletion(ctx, doc, model, d.Options.Model, params, settings)

			// keep whatever was received before a failure
			if err := doc.Save(); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().Bool("no-stream", false, "Wait for the complete answer instead of streaming it")
	cmd.Flags().Bool("print", false, "Also print the answer to stdout")

	return cmd
}

// runCompletion sends params to model and writes the answer into doc
// through the event router.
func runCompletion(
	ctx context.Context,
	doc *editor.Document,
	model completion.StreamingModel,
	modelName string,
	params completion.CompletionParams,
	settings completeSettings,
) error {
	router, err := events.NewEventRouter(events.WithVerbose(settings.Verbose))
	if err != nil {
		return err
	}

	router.AddHandler("document", events.TopicChat, events.NewDocumentHandler(doc, events.WithMessageHeader(settings.MessageHeader)))
	if settings.Echo != nil {
		router.AddHandler("printer", events.TopicChat, events.StepPrinterFunc("", settings.Echo))
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return router.Run(ctx)
	})
	eg.Go(func() error {
		defer func() {
			_ = router.Close()
		}()

		select {
		case <-router.Running():
		case <-ctx.Done():
			return ctx.Err()
		}

		p := events.NewStreamPublisher(events.NewWatermillSink(router.Publisher, events.TopicChat), modelName)

		var err error
		if settings.Stream {
			err = model.CompletionsStreaming(ctx, params, p.OnDelta)
		} else {
			var m *completion.Message
			m, err = model.Completions(ctx, params)
			if err == nil {
				err = p.Message(*m)
			}
		}
		if err != nil {
			_ = p.Fail(err)
			return err
		}
		return p.Close()
	})

	return eg.Wait()
}
