package synthesis

// GenericMessage is reported when a failure cannot be tied to a single field.
const GenericMessage = "Please check the form and try again"

// ValidationError describes the first invalid field of a request.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return e.Message
}
