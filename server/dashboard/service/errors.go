package service

import "errors"

// Client-side preconditions, checked before any network call is issued.
var (
	ErrEmptyMessage            = errors.New("message content is empty")
	ErrNoActiveConversation    = errors.New("no conversation is selected")
	ErrEmptyTitle              = errors.New("conversation title is required")
	ErrPrivateNeedsTwo         = errors.New("private conversations require exactly 2 participants")
	ErrInvalidConversationType = errors.New("conversation type must be private or group")
	ErrConfirmationRequired    = errors.New("participant removal requires confirmation")
	ErrInvalidStatusTransition = errors.New("form status can only advance one step forward")
	ErrUnknownForm             = errors.New("form is not in the loaded list")
	ErrUnknownRecord           = errors.New("record is not in the loaded list")
	ErrContentTypeMismatch     = errors.New("content type is not valid for the record type")
)

// IsValidationFailure reports whether err is a client-side precondition
// failure rather than a transport or backend error.
func IsValidationFailure(err error) bool {
	for _, sentinel := range []error{
		ErrEmptyMessage,
		ErrNoActiveConversation,
		ErrEmptyTitle,
		ErrPrivateNeedsTwo,
		ErrInvalidConversationType,
		ErrConfirmationRequired,
		ErrInvalidStatusTransition,
		ErrUnknownForm,
		ErrUnknownRecord,
		ErrContentTypeMismatch,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return isStructValidationError(err)
}
