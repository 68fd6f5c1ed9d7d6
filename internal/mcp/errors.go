package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/bidboard/internal/domain/bid"
	"github.com/rpggio/bidboard/internal/domain/history"
	"github.com/rpggio/bidboard/internal/domain/project"
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

func (e *APIError) CodeValue() string {
	return e.Code
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, history.ErrInvalidInput):
		return &APIError{
			Code:         "INVALID_INPUT",
			Message:      "invalid project input",
			RecoveryHint: "Text fields must be non-empty, prices positive with price_high >= price_low, due_date not in the past",
		}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project_id with list_projects"}
	case errors.Is(err, bid.ErrProjectStoreMissing):
		return &APIError{Code: "NOT_DEPLOYED", Message: "bid store is not linked to a project store"}
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
