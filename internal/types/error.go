package types

// CustomError is an application error that carries an HTTP status code and an
// error type discriminator for the JSON error envelope.
type CustomError struct {
	Code    int
	Message string
	Type    string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	return e.Message
}
