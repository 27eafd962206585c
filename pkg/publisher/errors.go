package publisher

// PublishError is returned by Publisher.Publish when at least one client
// failed. Context describes the failing client and publish call.
type PublishError struct {
	Message string
	Context map[string]any
	Err     error
}

// NewPublishError builds a PublishError without an underlying cause.
func NewPublishError(message string, context map[string]any) *PublishError {
	return &PublishError{Message: message, Context: context}
}

func (e *PublishError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return "publisher: " + e.Err.Error()
	}
	return "publisher: publish failed"
}

func (e *PublishError) Unwrap() error { return e.Err }
