// Package validation validates configuration and pipeline inputs.
//
// Struct tags are checked with go-playground/validator, which also gets a
// "langtag" rule backed by golang.org/x/text/language. The programmatic
// Validator collects field errors for checks that depend on several fields.
//
//	type TranslationConfig struct {
//	    Target string `mapstructure:"target" validate:"required,langtag"`
//	}
//	err := validation.Validate(cfg)
package validation
