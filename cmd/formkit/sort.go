package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/platform"
	"github.com/goliatone/go-formkit/pkg/renderers/term"
	"github.com/goliatone/go-formkit/pkg/reorder"
	"github.com/goliatone/go-formkit/pkg/schema"
)

var errNoItems = errors.New("formkit: nothing to sort")

type sortOptions struct {
	items     string
	schema    string
	operation string
	field     string
	title     string
	hideOrder bool
	copy      bool
}

func newSortCmd(c *cli) *cobra.Command {
	opts := &sortOptions{}
	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Reorder a list with the mouse or keyboard",
		Long: `sort opens a full screen list. Drag items with the mouse, or move the
cursor with j/k and the item under it with J/K. Space toggles an item and
enter confirms. The final list is printed as JSON.

Items come from --items ("a,b,c" or "a=First,b=Second") or from a sortable
field of a form document (--schema and --field).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.sort(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.items, "items", "", "comma separated items, value or value=text")
	flags.StringVarP(&opts.schema, "schema", "s", "", "form document holding the list")
	flags.StringVar(&opts.operation, "operation", "", "OpenAPI operation id")
	flags.StringVar(&opts.field, "field", "", "sortable field of the document")
	flags.StringVar(&opts.title, "title", "", "title shown above the list")
	flags.BoolVar(&opts.hideOrder, "hide-order", false, "hide the order badges")
	flags.BoolVar(&opts.copy, "copy", false, "copy the result to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("items", "schema")
	cmd.MarkFlagsRequiredTogether("schema", "field")
	return cmd
}

func (c *cli) sort(cmd *cobra.Command, opts *sortOptions) error {
	name, items, err := c.sortItems(cmd, opts)
	if err != nil {
		return err
	}

	// the binder mirrors the list so the copy reads what the engine reported
	b := binder.New(schema.New(schema.Field{Name: name, Value: items}), binder.WithLogger(c.logger))
	defer b.Close()

	engine, err := reorder.New(name, items,
		reorder.WithChangeCallback(b.OnChange),
		reorder.WithLogger(c.logger),
	)
	if err != nil {
		return err
	}

	sortOpts := []term.SortOption{term.WithServices(c.services)}
	if opts.title != "" {
		sortOpts = append(sortOpts, term.WithTitle(opts.title))
	}
	if opts.hideOrder {
		sortOpts = append(sortOpts, term.WithHiddenOrder())
	}

	sorted, err := c.sorter(cmd.Context(), engine, sortOpts)
	if err != nil {
		return err
	}
	c.logger.Debug("formkit: sorted", zap.String("field", name), zap.Strings("order", sorted.Values()))

	raw, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("formkit: encode items: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))

	if opts.copy {
		if _, err := platform.CopyField(c.services, b, name); err != nil {
			return fmt.Errorf("formkit: copy: %w", err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
	}
	return nil
}

func (c *cli) sortItems(cmd *cobra.Command, opts *sortOptions) (string, reorder.Items, error) {
	if opts.schema == "" {
		items := parseItems(opts.items)
		if len(items) == 0 {
			return "", nil, errNoItems
		}
		return "items", items, nil
	}

	doc, err := formkit.Load(cmd.Context(), opts.schema, c.loaderOptions(opts.operation)...)
	if err != nil {
		return "", nil, err
	}
	field, ok := doc.Schema.Get(opts.field)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", formkit.ErrUnknownField, opts.field)
	}
	items, ok := field.Value.(reorder.Items)
	if !ok {
		return "", nil, fmt.Errorf("formkit: field %q is not a sortable list", opts.field)
	}
	if len(items) == 0 {
		return "", nil, errNoItems
	}
	return opts.field, items, nil
}

// parseItems splits "a,b=Second" into items; blank entries are skipped.
func parseItems(raw string) reorder.Items {
	var items reorder.Items
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, text, _ := strings.Cut(part, "=")
		items = append(items, reorder.Item{Value: strings.TrimSpace(value), Text: strings.TrimSpace(text)})
	}
	return items
}
