package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/emrgen/glossary/internal/errs"
)

// GlossaryInput is the mutation payload for create and update.
type GlossaryInput struct {
	Term       string `json:"term" validate:"required,max=255"`
	Definition string `json:"definition" validate:"required"`
}

// sanitizer strips all markup, keeping plain text only. The service sits
// behind a frontend that renders definitions verbatim, so active content must
// never reach storage.
var sanitizer = bluemonday.StrictPolicy()

var validate = validator.New()

// cleanInput trims and sanitizes the payload in place, then validates it.
// Failures are reported as Invalid, a structurally bad payload never reaches
// the store.
func cleanInput(in *GlossaryInput) error {
	in.Term = strings.TrimSpace(sanitizer.Sanitize(strings.TrimSpace(in.Term)))
	in.Definition = strings.TrimSpace(sanitizer.Sanitize(strings.TrimSpace(in.Definition)))

	if err := validate.Struct(in); err != nil {
		if fields, ok := err.(validator.ValidationErrors); ok && len(fields) > 0 {
			field := fields[0]
			switch field.Tag() {
			case "required":
				return errs.Invalid("%s must not be empty", strings.ToLower(field.Field()))
			case "max":
				return errs.Invalid("%s must be at most %s characters", strings.ToLower(field.Field()), field.Param())
			}
		}
		return errs.Invalid("invalid input")
	}

	return nil
}
