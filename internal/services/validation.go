package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON error envelope returned by the facade.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Kind    FailureKind       `json:"kind,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ValidationHelper provides shared request validation.
type ValidationHelper struct {
	validator *validator.Validate
}

func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors.
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse writes a JSON error response, expanding validator detail
// when present.
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message}
	if fieldErrs, ok := validationErr.(validator.ValidationErrors); ok {
		errorResp.Details = make(map[string]string)
		for _, err := range fieldErrs {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendOutcomeError reports a terminal orchestration failure with its kind and
// the ledger's reason when one was supplied.
func SendOutcomeError(w http.ResponseWriter, kind FailureKind, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(kind.HTTPStatus())

	message := reason
	if message == "" {
		message = "operation failed"
	}
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Kind: kind})
}
