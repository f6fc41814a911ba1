package apperr

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// AuthRequiredError marks a gesture that needs a signed-in user. The UI turns
// it into a login prompt, never into a failure state.
type AuthRequiredError struct {
	Action string
}

func (e *AuthRequiredError) Error() string {
	if e.Action != "" {
		return "authentication required for " + e.Action
	}
	return "authentication required"
}

func NewAuthRequired(action string) *AuthRequiredError {
	return &AuthRequiredError{Action: action}
}

// NotSyncedError marks an action against an article that has no durable
// identity yet. Callers resolve identity first; posting a comment against a
// transient article surfaces this to the user.
type NotSyncedError struct {
	Message string
}

func (e *NotSyncedError) Error() string {
	return e.Message
}

func NewNotSynced(msg string) *NotSyncedError {
	return &NotSyncedError{Message: msg}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}
