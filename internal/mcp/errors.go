package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/checklist"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/repository"
)

// Stable error codes returned to clients.
const (
	CodeMethodNotFound     = "METHOD_NOT_FOUND"
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeItemNotFound       = "ITEM_NOT_FOUND"
	CodeTemplateNotFound   = "TEMPLATE_NOT_FOUND"
	CodeNoList             = "NO_LIST"
	CodeQuotaExceeded      = "QUOTA_EXCEEDED"
	CodeStorageWriteFailed = "STORAGE_WRITE_FAILED"
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

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{Code: CodeValidationFailed, Message: "invalid trip parameters", Details: verr.Problems, RecoveryHint: "Fix the listed fields and retry"}
	case errors.Is(err, checklist.ErrNoList):
		return &APIError{Code: CodeNoList, Message: "no packing list generated yet", RecoveryHint: "Call generate_list first"}
	case errors.Is(err, checklist.ErrItemNotFound):
		return &APIError{Code: CodeItemNotFound, Message: "item is not on the packing list", RecoveryHint: "Use a key from get_checklist"}
	case errors.Is(err, customitem.ErrItemNotFound):
		return &APIError{Code: CodeItemNotFound, Message: "custom item not found", RecoveryHint: "Use an id from list_custom_items"}
	case errors.Is(err, template.ErrTemplateNotFound):
		return &APIError{Code: CodeTemplateNotFound, Message: "template not found", RecoveryHint: "Use an id from list_templates"}
	case errors.Is(err, customitem.ErrInvalidInput), errors.Is(err, template.ErrInvalidInput), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, repository.ErrQuotaExceeded):
		return &APIError{Code: CodeQuotaExceeded, Message: "storage quota exceeded", RecoveryHint: "Delete templates or custom items to free space"}
	case errors.Is(err, repository.ErrStorageWrite):
		return &APIError{Code: CodeStorageWriteFailed, Message: "failed to persist change", RecoveryHint: "The change was not applied; retry later"}
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
