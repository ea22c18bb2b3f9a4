package domain

import "errors"

var (
	ErrTransientFetch    = errors.New("transient fetch failure")
	ErrSendFailed        = errors.New("send failed")
	ErrSubscriptionDrop  = errors.New("subscription dropped")
	ErrPresenceHandshake = errors.New("presence handshake failed")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrInvalidCohort     = errors.New("invalid cohort")
)
