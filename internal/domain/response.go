package domain

// APIResponse is the uniform envelope returned by every route.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

// OK wraps data in a success envelope.
func OK(data any) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// OKList wraps a list in a success envelope with its count.
func OKList(data any, count int) APIResponse {
	return APIResponse{Success: true, Data: data, Count: &count}
}

// OKMessage wraps a human-readable message in a success envelope.
func OKMessage(msg string) APIResponse {
	return APIResponse{Success: true, Message: msg}
}

// Fail wraps an error message in a failure envelope.
func Fail(msg string) APIResponse {
	return APIResponse{Success: false, Message: msg}
}
