package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const usersDocument = `{
  "openapi": "3.0.0",
  "info": { "title": "Users", "version": "1.0.0" },
  "paths": {
    "/users": {
      "get": {
        "operationId": "listUsers",
        "responses": { "200": { "description": "ok" } }
      },
      "post": {
        "operationId": "createUser",
        "summary": "Create a user",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {"$ref": "#/components/schemas/BaseUser"},
                  {
                    "type": "object",
                    "required": ["email"],
                    "properties": {
                      "email": {"type": "string", "format": "email", "x-formkit-order": 1, "x-formkit-label": "Email address"}
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": { "200": { "description": "ok" } }
      }
    },
    "/users/{id}": {
      "patch": {
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {"type": "object", "properties": {"nickname": {"type": "string"}}}
            }
          }
        },
        "responses": { "200": { "description": "ok" } }
      }
    }
  },
  "components": {
    "schemas": {
      "BaseUser": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "minLength": 2, "maxLength": 40},
          "age": {"type": "integer", "minimum": 18, "maximum": 130},
          "role": {"type": "string", "enum": ["admin", "member"], "default": "member"},
          "address": {
            "type": "object",
            "required": ["city"],
            "properties": {
              "city": {"type": "string", "x-formkit": {"placeholder": "Barcelona"}},
              "zip": {"type": "string", "pattern": "^[0-9]{5}$"}
            }
          }
        }
      }
    }
  }
}`

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestOperations_FlattensRequestBodies(t *testing.T) {
	p := New(Options{})
	operations, err := p.Operations(context.Background(), []byte(usersDocument))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	if _, ok := operations["listUsers"]; ok {
		t.Fatalf("operations without a request body should be skipped")
	}
	if _, ok := operations["patch:/users/{id}"]; !ok {
		t.Fatalf("expected synthesised id for anonymous operation, got %v", sortedKeys(operations))
	}

	op := operations["createUser"]
	if op.Method != "POST" || op.Path != "/users" || op.Summary != "Create a user" {
		t.Fatalf("unexpected operation header: %+v", op)
	}

	want := []Property{
		{Name: "email", Type: "string", Format: "email", Required: true, Label: "Email address"},
		{Name: "address.city", Type: "string", Required: true, Placeholder: "Barcelona"},
		{Name: "address.zip", Type: "string", Pattern: "^[0-9]{5}$"},
		{Name: "age", Type: "integer", Minimum: floatPtr(18), Maximum: floatPtr(130)},
		{Name: "name", Type: "string", Required: true, MinLength: intPtr(2), MaxLength: intPtr(40)},
		{Name: "role", Type: "string", Enum: []any{"admin", "member"}, Default: "member"},
	}
	if diff := cmp.Diff(want, op.Properties); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestOperation_NotFound(t *testing.T) {
	_, err := New(Options{}).Operation(context.Background(), []byte(usersDocument), "deleteUser")
	if !errors.Is(err, ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestOperations_RejectsEmptyDocuments(t *testing.T) {
	p := New(Options{})
	if _, err := p.Operations(context.Background(), nil); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	const noPaths = `{"openapi": "3.0.0", "info": {"title": "x", "version": "1"}, "paths": {}}`
	if _, err := p.Operations(context.Background(), []byte(noPaths)); err == nil {
		t.Fatalf("expected error for document without paths")
	}
	partial := New(Options{AllowPartialDocuments: true})
	ops, err := partial.Operations(context.Background(), []byte(noPaths))
	if err != nil || len(ops) != 0 {
		t.Fatalf("partial documents should parse to no operations, got %v %v", ops, err)
	}
}

func TestOperations_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(Options{}).Operations(ctx, []byte(usersDocument)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
