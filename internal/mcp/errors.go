package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/eventdesk/internal/domain/activity"
	"github.com/rpggio/eventdesk/internal/domain/event"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ConflictDetails is attached to CONFLICT errors.
type ConflictDetails struct {
	With        event.Event `json:"conflicts_with"`
	Suggestions []string    `json:"suggestions"`
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var conflict *event.ConflictError
	switch {
	case errors.As(err, &conflict):
		suggestions := conflict.Suggestions
		if suggestions == nil {
			suggestions = []string{}
		}
		return &APIError{
			Code:         "CONFLICT",
			Message:      conflict.Error(),
			Details:      ConflictDetails{With: conflict.With, Suggestions: suggestions},
			RecoveryHint: "Retry with one of the suggested start times",
		}
	case errors.Is(err, event.ErrInvalidFormat):
		return &APIError{Code: "INVALID_FORMAT", Message: err.Error(), RecoveryHint: "Use DD-MM-YYYY for dates and HH:MM for times"}
	case errors.Is(err, event.ErrDuplicateKey):
		return &APIError{Code: "DUPLICATE_KEY", Message: err.Error(), RecoveryHint: "Choose another name or date"}
	case errors.Is(err, event.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "event not found", RecoveryHint: "Check the id or name with search_events"}
	case errors.Is(err, event.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
