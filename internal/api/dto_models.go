package api

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SessionURLResponse carries a Stripe-hosted session URL (checkout or
// customer portal) for the client to redirect to.
type SessionURLResponse struct {
	URL string `json:"url"`
}
