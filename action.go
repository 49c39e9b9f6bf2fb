package neon

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// message represents an action message from the preview client (internal protocol)
type message struct {
	Action string         `json:"action" validate:"required,oneof=input set"`
	Data   map[string]any `json:"data"`
}

// InputData is the payload of the input and set actions.
type InputData struct {
	Key   string `json:"key" validate:"required,max=256"`
	Value any    `json:"value"`
}

// ActionData wraps action data with utilities for binding and validation
type ActionData struct {
	raw   map[string]any
	bytes []byte // Cached JSON for efficient binding
}

// newActionData creates ActionData from a map (internal use only)
func newActionData(data map[string]any) *ActionData {
	return &ActionData{raw: data}
}

// Bind unmarshals the data into a struct
func (a *ActionData) Bind(v any) error {
	// Lazy marshal to JSON
	if a.bytes == nil {
		var err error
		a.bytes, err = json.Marshal(a.raw)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
	}

	return json.Unmarshal(a.bytes, v)
}

// BindAndValidate binds data to struct and validates it in one step
func (a *ActionData) BindAndValidate(v any, validate *validator.Validate) error {
	if err := a.Bind(v); err != nil {
		return err
	}

	if err := validate.Struct(v); err != nil {
		return ValidationToMultiError(err)
	}

	return nil
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError is a collection of field errors (implements error interface)
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the errors keyed by field name
func (m MultiError) Fields() map[string]string {
	out := make(map[string]string, len(m))
	for _, err := range m {
		out[err.Field] = err.Message
	}
	return out
}

// ValidationToMultiError converts go-playground/validator errors to MultiError
func ValidationToMultiError(err error) MultiError {
	var fieldErrors MultiError

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fieldErrors
	}

	for _, e := range validationErrs {
		fieldName := strings.ToLower(e.Field())

		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", e.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
		default:
			message = fmt.Sprintf("%s is invalid", e.Field())
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   fieldName,
			Message: message,
		})
	}

	return fieldErrors
}

// parseMessage decodes and validates a preview message
func parseMessage(data []byte, validate *validator.Validate) (message, error) {
	var msg message
	if err := json.Unmarshal(data, &msg); err != nil {
		return message{}, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	// Ensure data map is initialized
	if msg.Data == nil {
		msg.Data = make(map[string]any)
	}

	if err := validate.Struct(msg); err != nil {
		return message{}, ValidationToMultiError(err)
	}

	return msg, nil
}

// applyMessage performs a validated action on c
func applyMessage(c *Component, msg message, validate *validator.Validate) error {
	var in InputData
	if err := newActionData(msg.Data).BindAndValidate(&in, validate); err != nil {
		return err
	}

	switch msg.Action {
	case "input":
		return c.Input(in.Key, in.Value)
	case "set":
		c.Set(in.Key, in.Value)
		return nil
	}
	return fmt.Errorf("%w: unknown action %q", ErrInvalidMessage, msg.Action)
}

// errorFields turns an action error into the field map sent to the client
func errorFields(err error) map[string]string {
	var multi MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		return multi.Fields()
	}
	return map[string]string{"message": err.Error()}
}
