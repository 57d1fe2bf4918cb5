package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidJsonError     = "invalid_json"
	HttpValidationError      = "event_validation_failed"
	HttpTransformFailedError = "transform_failed"
	HttpPayloadTooLargeError = "payload_too_large"
)

// ErrorResponse is the error response body for ingestion errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
