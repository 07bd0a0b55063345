package llm

// StatusError tags a provider error with the HTTP status the provider answered with.
type StatusError struct {
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// WithStatus wraps err in a StatusError when the status is known.
func WithStatus(err error, statusCode int) error {
	if err == nil || statusCode == 0 {
		return err
	}
	return &StatusError{StatusCode: statusCode, Err: err}
}

// AWS SDK response errors expose their status through this method.
type httpStatusCoder interface {
	HTTPStatusCode() int
}
