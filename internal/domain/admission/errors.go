package admission

import "errors"

// Reason identifies why a file was rejected. Callers switch on it instead of
// parsing the message.
type Reason string

const (
	ReasonEmptyFile              Reason = "empty_file"
	ReasonSizeExceedsAbsoluteMax Reason = "size_exceeds_absolute_max"
	ReasonSizeExceedsTierLimit   Reason = "size_exceeds_tier_limit"
	ReasonUnsupportedExtension   Reason = "unsupported_extension"
	ReasonUnknownTier            Reason = "unknown_tier"
)

var (
	ErrEmptyFile              = errors.New("file is empty")
	ErrSizeExceedsAbsoluteMax = errors.New("file exceeds absolute maximum size")
	ErrSizeExceedsTierLimit   = errors.New("file exceeds tier size limit")
	ErrUnsupportedExtension   = errors.New("unsupported file extension")
	ErrUnknownTier            = errors.New("unknown subscription tier")
)

var sentinels = map[Reason]error{
	ReasonEmptyFile:              ErrEmptyFile,
	ReasonSizeExceedsAbsoluteMax: ErrSizeExceedsAbsoluteMax,
	ReasonSizeExceedsTierLimit:   ErrSizeExceedsTierLimit,
	ReasonUnsupportedExtension:   ErrUnsupportedExtension,
	ReasonUnknownTier:            ErrUnknownTier,
}

// Rejection carries the user-facing message for a refused upload.
// Message is always set and is safe to show to the end user verbatim.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) Error() string { return r.Message }
func (r *Rejection) Unwrap() error { return sentinels[r.Reason] }

func reject(reason Reason, message string) *Rejection {
	return &Rejection{Reason: reason, Message: message}
}

// AsRejection reports whether err is an admission rejection and returns it.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
