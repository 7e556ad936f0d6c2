package response

type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// List wraps a collection and reports its size, zero included.
func List[T any](items []T, message string) *APIResponse[[]T] {
	n := len(items)
	if items == nil {
		items = []T{}
	}
	return &APIResponse[[]T]{Success: true, Message: message, Count: &n, Data: items}
}

func Item[T any](item T, message string) *APIResponse[T] {
	return &APIResponse[T]{Success: true, Message: message, Data: item}
}
