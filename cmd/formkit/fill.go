package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/loader"
	"github.com/goliatone/go-formkit/pkg/renderers/tui"
)

type fillOptions struct {
	schema    string
	operation string
	format    string
	watch     bool
	sanitize  bool
	maxRounds int
}

func newFillCmd(c *cli) *cobra.Command {
	opts := &fillOptions{}
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Prompt for every field and print the submitted values",
		Long: `fill prompts for each field of the form, submits it and prompts again
for the fields that were rejected, until the form is valid.

With --watch the schema file is reloaded on change and swapped into the
running form; new rules apply from the next submit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.fill(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.schema, "schema", "s", "", "form document path or http(s) URL")
	flags.StringVar(&opts.operation, "operation", "", "OpenAPI operation id")
	flags.StringVarP(&opts.format, "format", "f", string(tui.OutputFormatJSON), "output format: json, form or pretty")
	flags.BoolVar(&opts.watch, "watch", false, "reload the schema when the file changes")
	flags.BoolVar(&opts.sanitize, "sanitize", false, "strip HTML from error messages")
	flags.IntVar(&opts.maxRounds, "max-rounds", 0, "stop after this many rejected submits, 0 for no limit")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (c *cli) fill(cmd *cobra.Command, opts *fillOptions) error {
	format, ok := tui.ParseOutputFormat(opts.format)
	if !ok {
		return fmt.Errorf("formkit: unknown output format %q", opts.format)
	}
	if opts.watch {
		src, err := loader.ParseSource(opts.schema)
		if err != nil {
			return err
		}
		if src.Kind() != loader.SourceKindFile {
			return fmt.Errorf("formkit: --watch needs a local file, got %s", src)
		}
	}

	ctx := cmd.Context()
	doc, err := formkit.Load(ctx, opts.schema, c.loaderOptions(opts.operation)...)
	if err != nil {
		return err
	}

	var binderOpts []binder.Option
	if opts.sanitize {
		binderOpts = append(binderOpts, binder.WithHTMLSanitizer())
	}
	sessionOpts := []tui.Option{
		tui.WithOutputFormat(format),
		tui.WithLogger(c.logger),
		tui.WithBinderOptions(binderOpts...),
		tui.WithMaxRounds(opts.maxRounds),
	}
	if c.driver != nil {
		sessionOpts = append(sessionOpts, tui.WithPromptDriver(c.driver))
	}

	sess, err := formkit.NewSession(doc, sessionOpts...)
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.watch {
		stop := c.watch(ctx, sess, opts)
		defer stop()
	}

	out, err := sess.Run(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}

// watch swaps reloaded schemas into the session until the returned stop
// function is called. Answers already given survive a reload; widgets stay as
// first laid out.
func (c *cli) watch(ctx context.Context, sess *tui.Session, opts *fillOptions) (stop func()) {
	watchCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)

	go func() {
		done <- loader.Watch(watchCtx, opts.schema, func(doc loader.Document, err error) {
			if err != nil {
				return
			}
			sess.Reload(doc.Schema)
			c.logger.Info("formkit: schema reloaded", zap.String("schema", opts.schema), zap.Int("fields", doc.Schema.Len()))
		}, c.loaderOptions(opts.operation)...)
	}()

	return func() {
		cancel()
		if err := <-done; err != nil {
			c.logger.Warn("formkit: watch stopped", zap.Error(err))
		}
	}
}
