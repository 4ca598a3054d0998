package dto

// MessageResponse represents a plain confirmation body, e.g. after deletes.
type MessageResponse struct {
	Message string `json:"message"`
}
