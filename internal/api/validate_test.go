package api

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
)

func TestValidationMessage(t *testing.T) {
	v := validator.New()

	type form struct {
		Body  string `validate:"required,min=1,max=1000"`
		Email string `validate:"omitempty,email"`
		Role  string `validate:"omitempty,oneof=admin follower"`
	}

	tests := []struct {
		name  string
		input form
		want  string
	}{
		{"required", form{}, "body is required"},
		{"max", form{Body: strings.Repeat("x", 1001)}, "body must be at most 1000"},
		{"email", form{Body: "hi", Email: "not-an-email"}, "email must be a valid email address"},
		{"oneof", form{Body: "hi", Role: "superuser"}, "role must be one of: admin follower"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			got := validationMessage(err)
			if !strings.Contains(got, tt.want) {
				t.Errorf("validationMessage() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestValidationMessageNonValidatorError(t *testing.T) {
	got := validationMessage(errors.New("unexpected EOF"))
	if got != "Invalid request body" {
		t.Errorf("validationMessage(plain error) = %q, want generic message", got)
	}
}
