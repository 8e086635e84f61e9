package publish

// ConfigurationError reports missing hosting credentials.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return e.Msg }

// ValidationError reports an unusable publication input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// PublicationError wraps a failure in any fatal publication step, carrying
// the step name and the underlying cause.
type PublicationError struct {
	Step string
	Err  error
}

func (e *PublicationError) Error() string {
	return "publication failed at " + e.Step + ": " + e.Err.Error()
}

func (e *PublicationError) Unwrap() error { return e.Err }
