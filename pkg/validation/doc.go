// Package validation runs field validators against form values. Validate is
// pure and deterministic: for every field with validators it reports the
// message of the first declared validator that rejects the value, omitting
// fields that pass. Declarative rules (as loaded from YAML or OpenAPI
// documents) resolve into validators through a Registry seeded with the
// built-in rules (required, email, minLength, maxLength, pattern, min, max,
// oneOf, true). MapErrorPayload folds server-side error payloads into the
// same ErrorMap shape so they can be fed to a Binder as external errors.
package validation
