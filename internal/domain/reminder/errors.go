package reminder

import "errors"

var (
	// ErrNoUpcoming indicates no event is dated tomorrow.
	ErrNoUpcoming = errors.New("no events found for tomorrow")
	// ErrNoRecipients indicates the attendee list is empty.
	ErrNoRecipients = errors.New("no attendee email addresses found")
)
