package tui

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formkit/pkg/reorder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widget"
	"github.com/goliatone/go-formkit/pkg/widgets"
)

type stubDriver struct {
	inputs       []string
	selectIdx    []int
	multiIdx     [][]int
	confirm      []bool
	passwords    []string
	infoMessages []string
	inputCfgs    []InputConfig
	selectCfgs   []SelectConfig
	multiCfgs    []SelectConfig
	inputPos     int
	selectPos    int
	multiPos     int
	confirmPos   int
	passPos      int
	err          error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.inputCfgs = append(s.inputCfgs, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selectCfgs = append(s.selectCfgs, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.multiCfgs = append(s.multiCfgs, cfg)
	if s.multiPos >= len(s.multiIdx) {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[s.multiPos]
	s.multiPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func signupSchema() schema.Schema {
	return schema.New(
		schema.Field{Name: "email", Value: "", Validators: []schema.Validator{
			validation.Required("Email is required"),
			validation.Email("Please provide a valid email"),
		}},
		schema.Field{Name: "address.city", Value: ""},
		schema.Field{Name: "plan", Value: "free"},
		schema.Field{Name: "terms", Value: false, Validators: []schema.Validator{
			validation.True("Please accept the terms"),
		}},
		schema.Field{Name: "steps", Value: reorder.Items{
			{Value: "a", Text: "Install"},
			{Value: "b", Text: "Configure", Active: true},
		}},
	)
}

func signupTree() widget.Widget {
	return widgets.Group{Title: "Sign up", Items: []widget.Widget{
		widgets.Validated(widgets.TextInput{Name: "email", Label: "Email"}),
		widgets.TextInput{Name: "address.city", Label: "City"},
		widgets.Select{Name: "plan", Label: "Plan", Choices: []widgets.Choice{
			{Value: "free", Label: "Free"},
			{Value: "pro", Label: "Pro"},
		}},
		widgets.Checkbox{Name: "terms", Label: "Accept terms"},
		widgets.SortableList{Name: "steps", Label: "Steps"},
	}}
}

func TestSession_RepromptsRejectedFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"bad", "Paris", "me@example.com"},
		selectIdx: []int{1},
		multiIdx:  [][]int{{0, 1}},
		confirm:   []bool{false, true},
	}
	sess, err := NewSession(signupSchema(), signupTree(), WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	out, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output %s: %v", out, err)
	}
	want := map[string]any{
		"email":   "me@example.com",
		"address": map[string]any{"city": "Paris"},
		"plan":    "pro",
		"terms":   true,
		"steps": []any{
			map[string]any{"value": "a", "text": "Install", "active": true},
			map[string]any{"value": "b", "text": "Configure", "active": true},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	wantInfo := []string{"Email: Please provide a valid email", "Accept terms: Please accept the terms"}
	if diff := cmp.Diff(wantInfo, driver.infoMessages); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
	if driver.inputCfgs[2].Default != "bad" {
		t.Fatalf("expected re-prompt to default to the previous answer, got %q", driver.inputCfgs[2].Default)
	}
	if driver.selectCfgs[0].DefaultIndex != 0 {
		t.Fatalf("expected current choice as default, got %d", driver.selectCfgs[0].DefaultIndex)
	}
	if diff := cmp.Diff([]int{1}, driver.multiCfgs[0].Defaults); diff != "" {
		t.Fatalf("multiselect defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_InlineValidatorAndSecret(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "code", Value: ""},
		schema.Field{Name: "password", Value: ""},
	)
	tree := widgets.Group{Items: []widget.Widget{
		widgets.Validated(widgets.TextInput{Name: "code"}, validation.MinLength(3, "Too short")),
		widgets.TextInput{Name: "password", Secret: true},
	}}
	driver := &stubDriver{inputs: []string{"abcd"}, passwords: []string{"hunter2"}}

	sess, err := NewSession(s, tree, WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	out, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("code=abcd\npassword=hunter2\n", string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	validate := driver.inputCfgs[0].Validator
	if validate == nil {
		t.Fatalf("expected inline validator for declared rules")
	}
	if err := validate("ab"); err == nil || err.Error() != "Too short" {
		t.Fatalf("expected Too short, got %v", err)
	}
	if err := validate("abc"); err != nil {
		t.Fatalf("expected valid input, got %v", err)
	}
	if sess.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", sess.ContentType())
	}
}

func TestSession_Errors(t *testing.T) {
	t.Run("max rounds", func(t *testing.T) {
		driver := &stubDriver{inputs: []string{"bad", ""}, selectIdx: []int{0}, multiIdx: [][]int{nil}, confirm: []bool{true}}
		sess, _ := NewSession(signupSchema(), signupTree(), WithPromptDriver(driver), WithMaxRounds(1))
		defer sess.Close()

		if _, err := sess.Run(context.Background()); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("rejected field without widget", func(t *testing.T) {
		s := schema.New(
			schema.Field{Name: "name", Value: ""},
			schema.Field{Name: "hidden", Value: "", Validators: []schema.Validator{validation.Required("required")}},
		)
		driver := &stubDriver{inputs: []string{"x"}}
		sess, _ := NewSession(s, widgets.TextInput{Name: "name"}, WithPromptDriver(driver))
		defer sess.Close()

		if _, err := sess.Run(context.Background()); !errors.Is(err, ErrInvalid) {
			t.Fatalf("expected ErrInvalid, got %v", err)
		}
	})

	t.Run("aborted", func(t *testing.T) {
		driver := &stubDriver{err: ErrAborted}
		sess, _ := NewSession(signupSchema(), signupTree(), WithPromptDriver(driver))
		defer sess.Close()

		if _, err := sess.Run(context.Background()); !errors.Is(err, ErrAborted) {
			t.Fatalf("expected ErrAborted, got %v", err)
		}
	})

	t.Run("select outside options", func(t *testing.T) {
		s := schema.New(schema.Field{Name: "plan", Value: "free"})
		tree := widgets.Select{Name: "plan", Choices: []widgets.Choice{{Value: "free"}}}
		driver := &stubDriver{selectIdx: []int{-1}}
		sess, _ := NewSession(s, tree, WithPromptDriver(driver))
		defer sess.Close()

		if _, err := sess.Run(context.Background()); !errors.Is(err, ErrNoChoice) {
			t.Fatalf("expected ErrNoChoice, got %v", err)
		}
	})

	t.Run("nil tree", func(t *testing.T) {
		if _, err := NewSession(signupSchema(), nil); err == nil {
			t.Fatalf("expected error for nil tree")
		}
	})
}

func TestSession_FormOutputAndTransformer(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "user.name", Value: ""},
		schema.Field{Name: "steps", Value: reorder.Items{{Value: "a"}}},
	)
	tree := widgets.Group{Items: []widget.Widget{
		widgets.TextInput{Name: "user.name"},
		widgets.SortableList{Name: "steps"},
	}}
	driver := &stubDriver{inputs: []string{"Ada"}, multiIdx: [][]int{{0}}}
	transform := func(values map[string]any) (map[string]any, error) {
		values["source"] = "cli"
		return values, nil
	}

	sess, _ := NewSession(s, tree,
		WithPromptDriver(driver),
		WithOutputFormat(OutputFormatFormURLEncoded),
		WithSubmitTransformer(transform),
	)
	defer sess.Close()

	out, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "source=cli&steps%5B0%5D.active=true&steps%5B0%5D.text=&steps%5B0%5D.value=a&user.name=Ada"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestState_ExpandsDottedNames(t *testing.T) {
	state, err := NewState(map[string]any{"a.b": 1, "a.c.0": "x", "list.1": "y", "top": true})
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	want := map[string]any{
		"a":    map[string]any{"b": 1, "c": []any{"x"}},
		"list": []any{nil, "y"},
		"top":  true,
	}
	if diff := cmp.Diff(want, state.Values()); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if got, ok := state.GetValue("a.c.0"); !ok || got != "x" {
		t.Fatalf("expected x, got %v", got)
	}

	if _, err := NewState(map[string]any{"a": "x", "a.b": 1}); err == nil {
		t.Fatalf("expected conflict error")
	}
}

func TestParseOutputFormat(t *testing.T) {
	for raw, want := range map[string]OutputFormat{"": OutputFormatJSON, "form": OutputFormatFormURLEncoded, "pretty": OutputFormatPrettyText} {
		if got, ok := ParseOutputFormat(raw); !ok || got != want {
			t.Fatalf("ParseOutputFormat(%q) = %q, %v", raw, got, ok)
		}
	}
	if _, ok := ParseOutputFormat("xml"); ok {
		t.Fatalf("expected xml to be rejected")
	}
}

// reloadingDriver runs reload right before the prompt at index `at`.
type reloadingDriver struct {
	*stubDriver
	at     int
	calls  int
	reload func()
}

func (d *reloadingDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if d.calls == d.at && d.reload != nil {
		d.reload()
	}
	d.calls++
	return d.stubDriver.Input(ctx, cfg)
}

func TestSession_ReloadKeepsAnswers(t *testing.T) {
	profile := func(extra ...schema.Field) schema.Schema {
		return schema.New(append([]schema.Field{
			{Name: "nickname", Value: ""},
			{Name: "city", Value: "Berlin"},
		}, extra...)...)
	}
	tree := widgets.Group{Items: []widget.Widget{
		widgets.TextInput{Name: "nickname", Label: "Nickname"},
		widgets.TextInput{Name: "city", Label: "City"},
	}}

	driver := &reloadingDriver{stubDriver: &stubDriver{inputs: []string{"ada", "London"}}, at: 1}
	sess, err := NewSession(profile(), tree, WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	defer sess.Close()

	driver.reload = func() { sess.Reload(profile(schema.Field{Name: "country", Value: "UK"})) }

	out, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output %s: %v", out, err)
	}
	if diff := cmp.Diff(map[string]any{"nickname": "ada", "city": "London", "country": "UK"}, got); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}
