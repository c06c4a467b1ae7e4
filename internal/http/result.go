package httpapi

// Result is the envelope of every successful JSON response.
type Result[T any] struct {
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

// PageMeta describes one page of a listing.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

// Paginated is a listing page.
type Paginated[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

// ErrorBody is the body of every failed response. Errors is set for
// validation failures only.
type ErrorBody struct {
	Message string              `json:"message"`
	Code    string              `json:"error_code,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

func OkMessage[T any](message string, data T) Result[T] {
	return Result[T]{Message: message, Data: data}
}

func Fail(message string) ErrorBody {
	return ErrorBody{Message: message}
}

func paginate[T any](items []T, total, page, size int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	last := 1
	if size > 0 && total > 0 {
		last = (total + size - 1) / size
	}
	return Paginated[T]{
		Data: items,
		Meta: PageMeta{CurrentPage: page, PerPage: size, Total: total, LastPage: last},
	}
}

// MessageOnly is the body of a success without payload.
type MessageOnly struct {
	Message string `json:"message"`
}

func done(message string) MessageOnly { return MessageOnly{Message: message} }
