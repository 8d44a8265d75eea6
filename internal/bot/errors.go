package bot

import "grabbit/internal/util"

// ValidationError rejects user input before any external capability runs.
// Handlers reply with the message and treat the update as handled.
type ValidationError struct {
	UserMessage string
}

func (e *ValidationError) Error() string { return e.UserMessage }

// validateLink checks a user-supplied link and returns a ValidationError
// describing the problem, or nil when the link is acceptable.
func validateLink(raw string) *ValidationError {
	if v := util.ValidateURL(raw); !v.Valid {
		return &ValidationError{UserMessage: v.Error}
	}
	return nil
}
