package dto

// ErrorResponse is the wire shape for every failed request.
type ErrorResponse struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// NewErrorResponse creates a standard error response
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Message: message}
}

// WithDetails attaches field-level details to the error response
func (e *ErrorResponse) WithDetails(details map[string]interface{}) *ErrorResponse {
	e.Details = details
	return e
}
