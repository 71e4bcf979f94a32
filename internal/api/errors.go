package api

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError is a non-success HTTP response. Message carries the backend's
// structured error when the body was parseable, otherwise the per-call
// fallback text.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}
