package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeForbidden     = "forbidden"
	ErrCodeNotFound      = "not_found"
	ErrCodeConflict      = "conflict"
	ErrCodeInternalError = "internal_error"
)

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil, Success is true. On error: Data is
// nil, Error is set, Success is false. Message carries a human-readable
// summary either way.
// swagger:model APIResponse
type APIResponse struct {
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode,
// and encodes a successful APIResponse with the given message and data.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:    data,
		Error:   nil,
		Success: true,
		Message: message,
	})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes a failed APIResponse with the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:    nil,
		Error:   &APIError{Code: code, Message: message},
		Success: false,
		Message: message,
	})
}
