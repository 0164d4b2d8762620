package device

import (
	"errors"
	"strings"
)

var (
	// ErrNotInitialized indicates no session has been established yet
	ErrNotInitialized = errors.New("device not initialized")

	// ErrConnection indicates a session could not be established
	ErrConnection = errors.New("device connection failed")

	// ErrAudioInit indicates the audio monitor could not be created
	ErrAudioInit = errors.New("audio monitor could not be created")

	// ErrNoLink indicates no transport to the fixture is configured
	ErrNoLink = errors.New("no device link configured")

	// ErrUnsupported indicates an operation is not supported by the fixture
	ErrUnsupported = errors.New("operation not supported")

	// ErrValidation indicates a command payload failed schema validation
	ErrValidation = errors.New("validation error")
)

// AttributeSetError reports the sub-operations of a combined change that
// failed. Sub-operations that succeeded are not listed.
type AttributeSetError struct {
	Failures []string
	Causes   []error
}

func (e *AttributeSetError) Error() string {
	return strings.Join(e.Failures, " and ") + "."
}

func (e *AttributeSetError) Unwrap() []error {
	return e.Causes
}

// attempts collects independent sub-operation outcomes.
type attempts struct {
	failures []string
	causes   []error
}

func (a *attempts) record(label string, err error) {
	if err == nil {
		return
	}
	a.failures = append(a.failures, label)
	a.causes = append(a.causes, err)
}

func (a *attempts) err() error {
	if len(a.failures) == 0 {
		return nil
	}
	return &AttributeSetError{Failures: a.failures, Causes: a.causes}
}
