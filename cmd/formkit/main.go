// Command formkit fills, validates and sorts forms described by YAML form
// documents or OpenAPI request bodies.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/platform"
	"github.com/goliatone/go-formkit/pkg/renderers/term"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
	"github.com/goliatone/go-formkit/pkg/reorder"
)

// sortRunner drives the interactive reorder of engine and returns the final
// order.
type sortRunner func(ctx context.Context, engine *reorder.Engine, opts []term.SortOption) (reorder.Items, error)

// cli carries the state shared by every command. Tests swap the prompt
// driver, the sort runner and the host services.
type cli struct {
	verbose  bool
	logger   *zap.Logger
	driver   tui.PromptDriver
	sorter   sortRunner
	services platform.Services
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{
		sorter: func(ctx context.Context, engine *reorder.Engine, opts []term.SortOption) (reorder.Items, error) {
			return term.RunSort(ctx, engine, opts)
		},
		services: platform.DefaultServices(),
	}
	if err := newRootCmd(c).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "formkit",
		Short: "Fill, validate and sort forms from the terminal",
		Long: `formkit works on form documents: YAML files listing fields and their
rules, or the request body of an OpenAPI operation.

  formkit fill     --schema form.yaml
  formkit validate --schema form.yaml --values values.json
  formkit sort     --items "a,b,c"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			if c.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("formkit: init logger: %w", err)
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newFillCmd(c), newValidateCmd(c), newSortCmd(c))
	return root
}

func (c *cli) loaderOptions(operation string) []loader.Option {
	return []loader.Option{
		loader.WithLogger(c.logger),
		loader.WithOperation(operation),
	}
}
