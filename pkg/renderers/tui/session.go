package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widget"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

// Session fills a widget tree from the terminal. It owns a binder over the
// schema: every answer goes through the bound change handler, the form is
// submitted once all fields were visited and the fields the binder rejects
// are prompted again.
type Session struct {
	tree              widget.Widget
	binder            *binder.Binder
	binderOpts        []binder.Option
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxRounds         int
	logger            *zap.Logger

	submitted bool
	values    map[string]any
	rejected  validation.ErrorMap
}

// NewSession constructs a session with defaults (survey driver, JSON output).
func NewSession(s schema.Schema, tree widget.Widget, options ...Option) (*Session, error) {
	if tree == nil {
		return nil, errors.New("tui: widget tree is required")
	}
	sess := &Session{
		tree:         tree,
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(sess)
	}
	if sess.driver == nil {
		sess.driver = NewSurveyDriver(nil)
	}

	opts := append([]binder.Option{binder.WithLogger(sess.logger)}, sess.binderOpts...)
	opts = append(opts,
		binder.WithSubmitCallback(func(_ *binder.SubmitEvent, values map[string]any) {
			sess.submitted = true
			sess.values = values
		}),
		binder.WithErrorCallback(func(errs validation.ErrorMap) {
			sess.rejected = errs
		}),
	)
	sess.binder = binder.New(s, opts...)
	return sess, nil
}

// Binder exposes the driven binder, e.g. to swap the schema while a session
// is running.
func (s *Session) Binder() *binder.Binder {
	return s.binder
}

// Reload swaps in a reloaded schema while keeping the answers given so far:
// current values are carried over for every field that still exists.
func (s *Session) Reload(next schema.Schema) {
	next = next.Clone()
	for name, value := range s.binder.Values() {
		next.SetValue(name, value)
	}
	s.binder.SetSchema(next)
}

// ContentType reports the serialization format used by Run.
func (s *Session) ContentType() string {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Close releases the binder.
func (s *Session) Close() {
	s.binder.Close()
}

// Run prompts every bound field, then submits. Rejected fields are prompted
// again, with their error shown, until the form is valid, the driver fails
// or the round limit is hit. The submitted values are returned serialized.
func (s *Session) Run(ctx context.Context) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}

	var only map[string]bool
	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		prompted := 0
		for _, field := range s.fields() {
			if only != nil && !only[field.FieldName()] {
				continue
			}
			handled, err := s.prompt(ctx, field)
			if err != nil {
				return nil, err
			}
			if handled {
				prompted++
			}
		}
		if only != nil && prompted == 0 {
			return nil, fmt.Errorf("%w: no widget for %s", ErrInvalid, strings.Join(s.rejected.Fields(), ", "))
		}

		s.submitted, s.values, s.rejected = false, nil, nil
		if err := s.binder.Submit(&binder.SubmitEvent{}); err != nil {
			return nil, fmt.Errorf("tui: submit: %w", err)
		}
		if s.submitted {
			return s.output(s.values)
		}

		s.logger.Debug("tui: submit rejected", zap.Int("round", round), zap.Strings("fields", s.rejected.Fields()))
		if s.maxRounds > 0 && round >= s.maxRounds {
			return nil, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(s.rejected.Fields(), ", "))
		}
		only = make(map[string]bool)
		for _, name := range s.rejected.Fields() {
			only[name] = true
		}
	}
}

// fields binds the tree and returns its bindable fields in order. Fields the
// schema does not know are left out since their answers would be dropped.
func (s *Session) fields() []widget.Bindable {
	bound := s.binder.Bind(s.tree)
	known := s.binder.Schema()

	var out []widget.Bindable
	widget.Inspect(bound, func(w widget.Widget) bool {
		field, ok := w.(widget.Bindable)
		if !ok {
			return true
		}
		if known.Has(field.FieldName()) {
			out = append(out, field)
		} else {
			s.logger.Debug("tui: skipping unbound field", zap.String("field", field.FieldName()))
		}
		return false
	})
	return out
}

// prompt asks for one field. It reports false for widgets it has no prompt
// for.
func (s *Session) prompt(ctx context.Context, field widget.Bindable) (bool, error) {
	var rules []schema.Validator
	if validated, ok := field.(widgets.ValidatedField); ok {
		if validated.HasError() {
			if err := s.driver.Info(ctx, s.theme.ErrorPrefix+fieldLabel(validated.Inner())+": "+validated.ErrorText()); err != nil {
				return false, err
			}
		}
		rules = validated.Validation()
		field = validated.Inner()
	} else if msg := s.binder.Errors().Get(field.FieldName()); msg != "" {
		if err := s.driver.Info(ctx, s.theme.ErrorPrefix+fieldLabel(field)+": "+msg); err != nil {
			return false, err
		}
	}

	switch w := field.(type) {
	case widgets.TextInput:
		return true, s.promptText(ctx, w, rules)
	case widgets.Checkbox:
		return true, s.promptCheckbox(ctx, w)
	case widgets.Select:
		return true, s.promptSelect(ctx, w)
	case widgets.SortableList:
		return true, s.promptSortable(ctx, w)
	default:
		s.logger.Debug("tui: no prompt for widget", zap.String("field", field.FieldName()), zap.String("type", fmt.Sprintf("%T", field)))
		return false, nil
	}
}

func (s *Session) promptText(ctx context.Context, w widgets.TextInput, rules []schema.Validator) error {
	cfg := InputConfig{
		Message:   fieldLabel(w),
		Default:   w.Text(),
		Help:      w.Placeholder,
		Validator: inlineValidator(w.Name, rules),
	}
	var (
		response string
		err      error
	)
	if w.Secret {
		response, err = s.driver.Password(ctx, cfg)
	} else {
		response, err = s.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	w.Change(response)
	return nil
}

func (s *Session) promptCheckbox(ctx context.Context, w widgets.Checkbox) error {
	resp, err := s.driver.Confirm(ctx, ConfirmConfig{
		Message: fieldLabel(w),
		Default: w.Checked(),
	})
	if err != nil {
		return err
	}
	w.SetChecked(resp)
	return nil
}

func (s *Session) promptSelect(ctx context.Context, w widgets.Select) error {
	options := make([]string, len(w.Choices))
	for idx, choice := range w.Choices {
		options[idx] = choice.Display()
	}
	cfg := SelectConfig{Message: fieldLabel(w), Options: options, DefaultIndex: -1}
	if selected, ok := w.Selected(); ok {
		for idx, choice := range w.Choices {
			if choice.Value == selected.Value {
				cfg.DefaultIndex = idx
			}
		}
	}

	idx, err := s.driver.Select(ctx, cfg)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(w.Choices) {
		return fmt.Errorf("%w: %s", ErrNoChoice, w.Name)
	}
	return w.Choose(w.Choices[idx].Value)
}

// promptSortable offers the list as a multi-select of active items. Each
// flipped item is toggled through a reorder engine so the binder sees the
// same change events a pointer-driven list would raise.
func (s *Session) promptSortable(ctx context.Context, w widgets.SortableList) error {
	items := w.Items()
	options := make([]string, len(items))
	var active []int
	for idx, item := range items {
		options[idx] = itemLabel(item.Text, item.Value)
		if item.Active {
			active = append(active, idx)
		}
	}

	chosen, err := s.driver.MultiSelect(ctx, SelectConfig{Message: fieldLabel(w), Options: options, Defaults: active})
	if err != nil {
		return err
	}
	want := make(map[int]bool, len(chosen))
	for _, idx := range chosen {
		want[idx] = true
	}

	engine, err := w.Engine()
	if err != nil {
		return fmt.Errorf("tui: %s: %w", w.Name, err)
	}
	for idx, item := range items {
		if item.Active == want[idx] {
			continue
		}
		if err := engine.ToggleActive(idx); err != nil {
			return fmt.Errorf("tui: %s: %w", w.Name, err)
		}
	}
	return nil
}

// inlineValidator checks a field's own rules while typing. Schema rules are
// left to submit.
func inlineValidator(name string, rules []schema.Validator) func(string) error {
	if len(rules) == 0 {
		return nil
	}
	return func(text string) error {
		errs, err := validation.Validate(map[string][]schema.Validator{name: rules}, map[string]any{name: text})
		if err != nil {
			return err
		}
		if msg := errs.Get(name); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func fieldLabel(field widget.Field) string {
	var label string
	switch w := field.(type) {
	case widgets.TextInput:
		label = w.Label
	case widgets.Checkbox:
		label = w.Label
	case widgets.Select:
		label = w.Label
	case widgets.SortableList:
		label = w.Label
	}
	return itemLabel(label, field.FieldName())
}

func itemLabel(label, fallback string) string {
	if label != "" {
		return label
	}
	return fallback
}

func (s *Session) output(values map[string]any) ([]byte, error) {
	state, err := NewState(values)
	if err != nil {
		return nil, err
	}
	out := state.Values()
	if s.submitTransformer != nil {
		out, err = s.submitTransformer(out)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return s.serialize(out)
}

func (s *Session) serialize(values map[string]any) ([]byte, error) {
	switch s.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for idx, val := range v {
			if _, ok := val.(map[string]any); ok {
				flatten(fmt.Sprintf("%s[%d]", prefix, idx), val, out)
				continue
			}
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
