package dto

import "time"

// NoticeResponse is a dismissible message about an order.
type NoticeResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// EventResponse is one frame of the order stream.
type EventResponse struct {
	Type       string              `json:"type"`
	Projection *ProjectionResponse `json:"projection,omitempty"`
	Notice     *NoticeResponse     `json:"notice,omitempty"`
}

// ErrorResponse is returned for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
