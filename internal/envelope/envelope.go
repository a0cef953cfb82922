// Package envelope holds the uniform success/failure wrappers returned by
// workflow-level operations and paginated listings.
package envelope

const defaultOKMessage = "operation completed successfully"

// Result wraps a single workflow outcome. A failed Result is a normal,
// expected outcome (unsupported payment method, declined settlement), not an error.
type Result[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *T     `json:"data"`

	// Retryable marks a failure caused by a transient error rather than a
	// business decision. It is not encoded.
	Retryable bool `json:"-"`
}

// Ok builds a successful result. An empty message falls back to a generic one.
func Ok[T any](data T, message string) Result[T] {
	if message == "" {
		message = defaultOKMessage
	}
	return Result[T]{Success: true, Message: message, Data: &data}
}

// Fail builds a failed result with no data.
func Fail[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message}
}

// FailRetryable builds a failed result that the same request may not repeat.
func FailRetryable[T any](message string) Result[T] {
	return Result[T]{Success: false, Message: message, Retryable: true}
}

// Page is a paginated listing.
type Page[T any] struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CurrentPage int    `json:"current_page"`
	PageSize    int    `json:"page_size"`
	TotalCount  int    `json:"total_count"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	Data        []T    `json:"data"`
}

// NewPage fills in derived pagination metadata. Data is never nil so it
// encodes as an empty JSON array.
func NewPage[T any](items []T, currentPage, pageSize, totalCount int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Page[T]{
		Success:     true,
		Message:     defaultOKMessage,
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		HasNext:     currentPage < totalPages,
		Data:        items,
	}
}
