package binder_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widget"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func emailSchema() schema.Schema {
	return schema.New(schema.Field{
		Name:  "email",
		Value: "",
		Validators: []schema.Validator{
			validation.Required("Email is required"),
			validation.Email("Invalid email"),
		},
	})
}

type recorder struct {
	mu        sync.Mutex
	changes   []map[string]any
	changeErr []validation.ErrorMap
	submits   []map[string]any
	events    []*binder.SubmitEvent
	failures  []validation.ErrorMap
}

func (r *recorder) options() []binder.Option {
	return []binder.Option{
		binder.WithChangeCallback(func(values map[string]any, errs validation.ErrorMap) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.changes = append(r.changes, values)
			r.changeErr = append(r.changeErr, errs)
		}),
		binder.WithSubmitCallback(func(ev *binder.SubmitEvent, values map[string]any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, ev)
			r.submits = append(r.submits, values)
		}),
		binder.WithErrorCallback(func(errs validation.ErrorMap) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.failures = append(r.failures, errs)
		}),
	}
}

func TestSubmit_ValidEmailReachesSubmitCallback(t *testing.T) {
	rec := &recorder{}
	b := binder.New(emailSchema(), rec.options()...)

	b.OnChange(change("email", "a@b.com"))

	ev := &binder.SubmitEvent{}
	if err := b.Submit(ev); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !ev.DefaultPrevented() {
		t.Fatalf("expected submit to prevent the default action")
	}
	if diff := cmp.Diff([]map[string]any{{"email": "a@b.com"}}, rec.submits); diff != "" {
		t.Fatalf("submit values mismatch (-want +got):\n%s", diff)
	}
	if rec.events[0] != ev {
		t.Fatalf("submit callback received a different event")
	}
	if len(rec.failures) != 0 {
		t.Fatalf("error callback called for a valid form: %v", rec.failures)
	}
}

func TestSubmit_InvalidEmailReachesErrorCallback(t *testing.T) {
	rec := &recorder{}
	b := binder.New(emailSchema(), rec.options()...)

	b.OnChange(change("email", "nope"))
	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(rec.submits) != 0 {
		t.Fatalf("submit callback must not run while errors exist")
	}
	if diff := cmp.Diff([]validation.ErrorMap{{"email": "Invalid email"}}, rec.failures); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	bound := b.Bind(group{children: []widget.Widget{input{name: "email"}}})
	if got := findInput(t, bound, "email").props.Error; got != "Invalid email" {
		t.Fatalf("expected bound error %q, got %q", "Invalid email", got)
	}
}

func TestSubmit_EmptyRequiredFieldWithoutErrorCallback(t *testing.T) {
	submitted := false
	b := binder.New(emailSchema(), binder.WithSubmitCallback(func(*binder.SubmitEvent, map[string]any) {
		submitted = true
	}))

	if err := b.Submit(nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted {
		t.Fatalf("submit callback must not run while errors exist")
	}
	if got := b.Errors().Get("email"); got != "Email is required" {
		t.Fatalf("expected required message, got %q", got)
	}
}

func TestSubmit_PanickingValidatorIsReturned(t *testing.T) {
	s := schema.New(schema.Field{Name: "age", Validators: []schema.Validator{{
		Message:   "boom",
		Predicate: func(any) bool { panic("broken validator") },
	}}})
	rec := &recorder{}
	b := binder.New(s, rec.options()...)

	err := b.Submit(&binder.SubmitEvent{})
	if !errors.Is(err, validation.ErrFatalValidator) {
		t.Fatalf("expected ErrFatalValidator, got %v", err)
	}
	var verr *validation.ValidatorError
	if !errors.As(err, &verr) || verr.Field != "age" {
		t.Fatalf("expected ValidatorError for age, got %#v", err)
	}
	if len(rec.submits)+len(rec.failures) != 0 {
		t.Fatalf("no callback expected after a fatal validator")
	}
}

func TestOnChange_CheckboxStoresCheckedState(t *testing.T) {
	s := schema.New(schema.Field{Name: "terms", Value: false})
	rec := &recorder{}
	b := binder.New(s, rec.options()...)

	b.OnChange(widget.ChangeEvent{Target: widget.Target{
		Name:    "terms",
		Type:    widget.TypeCheckbox,
		Value:   "on",
		Checked: true,
	}})

	if diff := cmp.Diff(map[string]any{"terms": true}, b.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestOnChange_SetsOptionOnlyWhenProvided(t *testing.T) {
	s := schema.New(schema.Field{Name: "country", Option: "keep"})
	b := binder.New(s)

	b.OnChange(change("country", "es"))
	field, _ := b.Schema().Get("country")
	if field.Option != "keep" {
		t.Fatalf("option overwritten by event without option: %v", field.Option)
	}

	b.OnChange(widget.ChangeEvent{Target: widget.Target{Name: "country", Value: "fr", Option: "France"}})
	field, _ = b.Schema().Get("country")
	if field.Value != "fr" || field.Option != "France" {
		t.Fatalf("unexpected field after change: %+v", field)
	}
}

func TestOnChange_ClearsInternalErrorButKeepsExternal(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "email", Validators: []schema.Validator{validation.Required("Email is required")}},
		schema.Field{Name: "name"},
	)
	rec := &recorder{}
	b := binder.New(s, append(rec.options(), binder.WithExternalErrors(validation.ErrorMap{"name": "taken"}))...)

	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	b.OnChange(change("email", "x@y.z"))
	b.OnChange(change("name", "bob"))

	want := validation.ErrorMap{"email": "", "name": "taken"}
	if diff := cmp.Diff(want, rec.changeErr[len(rec.changeErr)-1]); diff != "" {
		t.Fatalf("merged errors mismatch (-want +got):\n%s", diff)
	}
	if b.Errors().HasErrors() != true {
		t.Fatalf("external error should still be reported")
	}
}

func TestOnChange_UnknownFieldIsIgnored(t *testing.T) {
	rec := &recorder{}
	b := binder.New(emailSchema(), rec.options()...)

	b.OnChange(change("nickname", "x"))

	if len(rec.changes) != 0 {
		t.Fatalf("change callback called for unknown field")
	}
	if diff := cmp.Diff(map[string]any{"email": ""}, b.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestOnChange_ReentrantChangeIsQueued(t *testing.T) {
	s := schema.New(schema.Field{Name: "slug"})
	var (
		b    *binder.Binder
		seen []any
	)
	b = binder.New(s, binder.WithChangeCallback(func(values map[string]any, _ validation.ErrorMap) {
		seen = append(seen, values["slug"])
		if values["slug"] == "Hello World" {
			b.OnChange(change("slug", "hello-world"))
			if got := b.Values()["slug"]; got != "Hello World" {
				t.Errorf("queued change applied before the current callback returned: %v", got)
			}
		}
	}))

	b.OnChange(change("slug", "Hello World"))

	if diff := cmp.Diff([]any{"Hello World", "hello-world"}, seen); diff != "" {
		t.Fatalf("callback sequence mismatch (-want +got):\n%s", diff)
	}
	if got := b.Values()["slug"]; got != "hello-world" {
		t.Fatalf("expected queued change applied, got %v", got)
	}
}

func TestOnChange_CallbackSnapshotsAreIndependent(t *testing.T) {
	s := schema.New(schema.Field{Name: "tags", Value: []string{"a"}})
	var captured map[string]any
	b := binder.New(s, binder.WithChangeCallback(func(values map[string]any, _ validation.ErrorMap) {
		captured = values
	}))

	b.OnChange(change("tags", []string{"a", "b"}))
	captured["tags"].([]string)[0] = "mutated"

	if diff := cmp.Diff(map[string]any{"tags": []string{"a", "b"}}, b.Values()); diff != "" {
		t.Fatalf("binder state leaked through snapshot (-want +got):\n%s", diff)
	}
}

func TestBind_InjectsPropsAndKeepsUnboundNodes(t *testing.T) {
	s := schema.New(
		schema.Field{Name: "email", Value: "a@b.com"},
		schema.Field{Name: "terms", Value: true},
	)
	b := binder.New(s, binder.WithExternalErrors(validation.ErrorMap{"email": "already registered"}))

	tree := group{children: []widget.Widget{
		group{children: []widget.Widget{input{name: "email"}}},
		label{name: "terms"},
		input{name: "orphan"},
		nil,
	}}
	bound := b.Bind(tree)

	email := findInput(t, bound, "email")
	if !email.bound || email.props.Value != "a@b.com" || email.props.Error != "already registered" {
		t.Fatalf("unexpected email props: %+v", email.props)
	}
	if email.props.OnChange == nil {
		t.Fatalf("expected change handler on bound field")
	}
	if orphan := findInput(t, bound, "orphan"); orphan.bound {
		t.Fatalf("field without schema key must not be bound")
	}
	if _, ok := widget.Find(bound, "terms"); !ok {
		t.Fatalf("non-bindable field dropped from tree")
	}
	if tree.children[0].(group).children[0].(input).bound {
		t.Fatalf("bind mutated the input tree")
	}
	if got := len(bound.Children()); got != 4 {
		t.Fatalf("expected 4 children preserved, got %d", got)
	}
}

func TestBind_ChangeHandlerRoutesToBinder(t *testing.T) {
	rec := &recorder{}
	b := binder.New(emailSchema(), rec.options()...)

	bound := b.Bind(input{name: "email"})
	bound.(input).change("z@z.io")

	if diff := cmp.Diff([]map[string]any{{"email": "z@z.io"}}, rec.changes); diff != "" {
		t.Fatalf("change mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_WidgetValidatorsOverrideSchema(t *testing.T) {
	rec := &recorder{}
	b := binder.New(emailSchema(), rec.options()...)

	b.Bind(input{name: "email", rules: []schema.Validator{validation.MinLength(10, "too short")}})
	b.OnChange(change("email", "nope"))
	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]validation.ErrorMap{{"email": "too short"}}, rec.failures); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	// a later bind without the widget rules falls back to the schema
	b.Bind(input{name: "email"})
	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := rec.failures[1].Get("email"); got != "Invalid email" {
		t.Fatalf("expected schema validator after rebind, got %q", got)
	}
}

func TestBind_SanitizesErrorMessages(t *testing.T) {
	b := binder.New(emailSchema(),
		binder.WithExternalErrors(validation.ErrorMap{"email": "<script>x()</script><b>bad</b> address"}),
		binder.WithHTMLSanitizer(),
	)

	bound := b.Bind(input{name: "email"})
	if got := bound.(input).props.Error; got != "bad address" {
		t.Fatalf("expected sanitised message, got %q", got)
	}
	if got := b.Errors().Get("email"); got == "bad address" {
		t.Fatalf("sanitiser must only affect injected props")
	}
}

func TestDebounce_CoalescesBurstIntoLastValue(t *testing.T) {
	sched := &fakeScheduler{}
	rec := &recorder{}
	b := binder.New(emailSchema(), append(rec.options(),
		binder.WithDebounce(50*time.Millisecond),
		binder.WithScheduler(sched),
	)...)

	b.OnChange(change("email", "a"))
	b.OnChange(change("email", "ab"))
	b.OnChange(change("email", "abc"))

	if len(rec.changes) != 0 {
		t.Fatalf("change applied before the quiet period elapsed")
	}
	if !b.Pending("email") {
		t.Fatalf("expected pending change for email")
	}
	if got := sched.active(); got != 1 {
		t.Fatalf("expected a single live timer, got %d", got)
	}

	sched.fireStale()
	if len(rec.changes) != 0 {
		t.Fatalf("stale timer applied a superseded change")
	}

	sched.fireAll()
	if diff := cmp.Diff([]map[string]any{{"email": "abc"}}, rec.changes); diff != "" {
		t.Fatalf("debounced changes mismatch (-want +got):\n%s", diff)
	}
	if sched.delays[0] != 50*time.Millisecond {
		t.Fatalf("unexpected debounce delay %v", sched.delays[0])
	}
}

func TestDebounce_FieldsAreIndependent(t *testing.T) {
	sched := &fakeScheduler{}
	s := schema.New(schema.Field{Name: "first"}, schema.Field{Name: "last"})
	b := binder.New(s, binder.WithDebounce(time.Second), binder.WithScheduler(sched))

	b.OnChange(change("first", "Ada"))
	b.OnChange(change("last", "Lovelace"))
	sched.fireAll()

	if diff := cmp.Diff(map[string]any{"first": "Ada", "last": "Lovelace"}, b.Values()); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_FlushesPendingChanges(t *testing.T) {
	sched := &fakeScheduler{}
	rec := &recorder{}
	b := binder.New(emailSchema(), append(rec.options(),
		binder.WithDebounce(time.Second),
		binder.WithScheduler(sched),
	)...)

	b.OnChange(change("email", "late@typed.io"))
	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if diff := cmp.Diff([]map[string]any{{"email": "late@typed.io"}}, rec.submits); diff != "" {
		t.Fatalf("submit values mismatch (-want +got):\n%s", diff)
	}
	if sched.active() != 0 {
		t.Fatalf("flush left a live timer")
	}
}

func TestDebounce_RealScheduler(t *testing.T) {
	done := make(chan map[string]any, 1)
	b := binder.New(emailSchema(),
		binder.WithDebounce(5*time.Millisecond),
		binder.WithChangeCallback(func(values map[string]any, _ validation.ErrorMap) {
			done <- values
		}),
	)
	defer b.Close()

	b.OnChange(change("email", "a@b.c"))

	select {
	case values := <-done:
		if values["email"] != "a@b.c" {
			t.Fatalf("unexpected values %v", values)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced change never applied")
	}
}

func TestSetSchema(t *testing.T) {
	sched := &fakeScheduler{}
	rec := &recorder{}
	s := schema.New(
		schema.Field{Name: "email", Validators: []schema.Validator{validation.Required("required")}},
		schema.Field{Name: "name", Validators: []schema.Validator{validation.Required("required")}},
	)
	b := binder.New(s, append(rec.options(), binder.WithDebounce(time.Second), binder.WithScheduler(sched))...)

	if err := b.Submit(&binder.SubmitEvent{}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	b.SetSchema(s)
	if diff := cmp.Diff(validation.ErrorMap{"email": "required", "name": "required"}, b.Errors()); diff != "" {
		t.Fatalf("equal schema should be a no-op (-want +got):\n%s", diff)
	}

	b.OnChange(change("email", "pending@x.io"))
	next := schema.New(schema.Field{Name: "email", Value: "host@x.io"})
	b.SetSchema(next)
	sched.fireAll()

	if diff := cmp.Diff(validation.ErrorMap{"email": "required"}, b.Errors()); diff != "" {
		t.Fatalf("stale errors not dropped (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]any{"email": "host@x.io"}, b.Values()); diff != "" {
		t.Fatalf("pending change survived schema replacement (-want +got):\n%s", diff)
	}
	if len(rec.changes) != 0 {
		t.Fatalf("cancelled change reached the callback")
	}
}

func TestClose(t *testing.T) {
	sched := &fakeScheduler{}
	rec := &recorder{}
	b := binder.New(emailSchema(), append(rec.options(), binder.WithDebounce(time.Second), binder.WithScheduler(sched))...)

	b.OnChange(change("email", "x"))
	b.Close()
	sched.fireAll()
	b.OnChange(change("email", "y"))

	if len(rec.changes) != 0 {
		t.Fatalf("changes applied after close")
	}
	if err := b.Submit(&binder.SubmitEvent{}); !errors.Is(err, binder.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	b.Close()
}

func TestSetExternalErrors(t *testing.T) {
	b := binder.New(emailSchema())
	external := validation.ErrorMap{"email": "server says no"}
	b.SetExternalErrors(external)
	external["email"] = "mutated"

	if got := b.Errors().Get("email"); got != "server says no" {
		t.Fatalf("expected copied external error, got %q", got)
	}
}
