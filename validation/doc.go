// Package validation checks settings, CLI flags and request bodies.
//
// Struct tag validation (go-playground/validator) covers configuration and
// JSON payloads; the fluent Validator collects hand-written checks. Both
// report failures as a single errors.Validation AppError whose "fields"
// detail lists every offending field.
//
//	v := validation.New().
//		Required("file", path).
//		FloatRange("temperature", temp, 0, 2)
//	if appErr := v.Validate(); appErr != nil {
//		return appErr
//	}
package validation
