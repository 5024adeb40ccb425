// Sidle
// Copyright (c) 2026 The Sidle Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Sidle.
//
// Sidle is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Sidle is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Sidle.  If not, see <http://www.gnu.org/licenses/>.

// Package validation validates API request payloads using
// go-playground/validator.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrMissingBody = errors.New("missing request body")
	ErrInvalidBody = errors.New("invalid request body")
)

// Error wraps validation failures with per-field messages.
type Error struct {
	Fields []FieldError
}

// FieldError describes a single failed field.
type FieldError struct {
	Value   any
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// NewError converts validator.ValidationErrors into an Error.
func NewError(errs validator.ValidationErrors) *Error {
	ve := &Error{Fields: make([]FieldError, len(errs))}
	for i, fe := range errs {
		ve.Fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fe.Value(),
			Message: fmt.Sprintf("field %q failed on %q", fe.Field(), fe.Tag()),
		}
	}
	return ve
}

// Validator validates API request structs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a Validator with custom rules registered.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("appid", validateAppID)
	return &Validator{validate: v}
}

// DefaultValidator is the shared instance used by the API handlers.
var DefaultValidator = NewValidator()

// Validate checks a struct against its validation tags.
func (v *Validator) Validate(params any) error {
	if err := v.validate.Struct(params); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return NewError(verrs)
		}
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// DecodeAndValidate decodes a JSON request body into dest and
// validates it. Returns ErrMissingBody for an empty body and
// ErrInvalidBody for malformed JSON.
func DecodeAndValidate[T any](body io.Reader, dest *T) error {
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}
	if len(data) == 0 {
		return ErrMissingBody
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrInvalidBody
	}
	return DefaultValidator.Validate(dest)
}

// validateAppID accepts Steam app ids: non-empty strings of digits.
func validateAppID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
