package dto

// Envelope is the uniform response wrapper consumed by the web and mobile
// clients: {success, data | error}.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// OK wraps a successful payload.
func OK(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// Fail wraps an error message.
func Fail(message string) Envelope {
	return Envelope{Success: false, Error: message}
}
