package leadmagnet

import "context"

// SubmissionService handles one lead-capture form submission
type SubmissionService interface {
	// Submit returns an ErrInvalid error when the input fails validation.
	// Every other failure is reported through the result flags.
	Submit(ctx context.Context, fullName, email string) (*SubmissionResult, error)
}

// State is a step of the submission flow
type State int

// Submission states
const (
	StateReceived State = iota
	StateValidated
	StateStorePersisted
	StateStoreFailed
	StateNotified
	StatePartiallyNotified
	StateNotNotified
	StateResponded
)

var stateNames = [...]string{
	StateReceived:          "received",
	StateValidated:         "validated",
	StateStorePersisted:    "store_persisted",
	StateStoreFailed:       "store_failed",
	StateNotified:          "notified",
	StatePartiallyNotified: "partially_notified",
	StateNotNotified:       "not_notified",
	StateResponded:         "responded",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// SubmissionRequest is the body of POST /api/subscribe
type SubmissionRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// SubmissionResult is the composite outcome of a submission
type SubmissionResult struct {
	Success            bool        `json:"success"`
	Subscriber         *Subscriber `json:"subscriber,omitempty"`
	DownloadURL        string      `json:"downloadUrl"`
	EmailSent          bool        `json:"emailSent"`
	FreeTierLimitation bool        `json:"freeTierLimitation"`
	EmailDetails       string      `json:"emailDetails,omitempty"`

	State    State     `json:"-"`
	Trace    []State   `json:"-"`
	StoreErr error     `json:"-"`
	Owner    *Delivery `json:"-"`
	User     *Delivery `json:"-"`
}

// Transition moves the result to the next state and records it
func (r *SubmissionResult) Transition(s State) {
	r.State = s
	r.Trace = append(r.Trace, s)
}

// ErrorResponse is the body of a non-200 response
type ErrorResponse struct {
	Error  string           `json:"error"`
	Fields ValidationErrors `json:"fields,omitempty"`
}
