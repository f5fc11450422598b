package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/validation"
)

var errInvalidValues = errors.New("formkit: values are invalid")

type validateOptions struct {
	schema    string
	operation string
	values    string
	server    string
	render    bool
}

func newValidateCmd(c *cli) *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a JSON object of values against a form",
		Long: `validate prints one "field: message" line per failing field and exits
non-zero when any field fails. Fields left out of the values keep the
document defaults. Use --values - to read the values from stdin.

--server-errors takes a JSON object of path to messages, as returned by an
API rejecting the values. Paths are matched onto field names and win over
local errors; messages that match no field are printed under "form".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.validate(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.schema, "schema", "s", "", "form document path or http(s) URL")
	flags.StringVar(&opts.operation, "operation", "", "OpenAPI operation id")
	flags.StringVar(&opts.values, "values", "", "JSON file with the values, - for stdin")
	flags.StringVar(&opts.server, "server-errors", "", "JSON file with server side errors to merge")
	flags.BoolVar(&opts.render, "render", false, "also draw the form with the values and errors")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (c *cli) validate(cmd *cobra.Command, opts *validateOptions) error {
	doc, err := formkit.Load(cmd.Context(), opts.schema, c.loaderOptions(opts.operation)...)
	if err != nil {
		return err
	}
	values, err := readValues(cmd.InOrStdin(), opts.values)
	if err != nil {
		return err
	}
	errs, err := formkit.Validate(doc, values)
	if err != nil {
		return err
	}
	var formErrs []string
	if opts.server != "" {
		external, messages, err := readServerErrors(doc, opts.server)
		if err != nil {
			return err
		}
		errs = errs.Merge(external)
		formErrs = messages
	}

	out := cmd.OutOrStdout()
	if opts.render {
		s := doc.Schema.Clone()
		for name, value := range values {
			s.SetValue(name, value)
		}
		b := binder.New(s, binder.WithExternalErrors(errs), binder.WithLogger(c.logger))
		defer b.Close()
		fmt.Fprintln(out, formkit.Render(doc, b))
	}

	fields := errs.Fields()
	if len(fields) == 0 && len(formErrs) == 0 {
		fmt.Fprintln(out, "ok")
		return nil
	}
	for _, name := range fields {
		fmt.Fprintf(out, "%s: %s\n", name, errs.Get(name))
	}
	for _, message := range formErrs {
		fmt.Fprintf(out, "form: %s\n", message)
	}
	return fmt.Errorf("%w: %d failing field(s)", errInvalidValues, len(fields))
}

func readServerErrors(doc formkit.Document, path string) (validation.ErrorMap, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("formkit: read server errors: %w", err)
	}
	var payload map[string][]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, nil, fmt.Errorf("formkit: decode server errors: %w", err)
	}
	fields, form := validation.MapErrorPayload(doc.Schema, payload)
	return fields, form, nil
}

func readValues(stdin io.Reader, location string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	switch location {
	case "":
		return map[string]any{}, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("formkit: read values: %w", err)
	}

	values := map[string]any{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("formkit: decode values: %w", err)
	}
	return values, nil
}
