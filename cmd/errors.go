package cmd

import "errors"

// reportedError is an error the user has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported reports whether err was already shown to the user and should
// not be printed again.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
