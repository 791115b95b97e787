// Package validation validates harness configuration structs via
// go-playground/validator struct tags, producing readable per-field
// messages.
package validation
