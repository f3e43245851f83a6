package models

// Status is order status
type Status string

// order status
const (
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusNew            Status = "NEW"
	StatusPreparing      Status = "PREPARING"
	StatusReady          Status = "READY"
	StatusCompleted      Status = "COMPLETED"
	StatusCanceled       Status = "CANCELED"
)

// transitions is fixed status graph, any edge not listed is illegal
var transitions = map[Status][]Status{
	StatusPendingPayment: {StatusNew, StatusCanceled},
	StatusNew:            {StatusPreparing, StatusCanceled},
	StatusPreparing:      {StatusReady, StatusCanceled},
	StatusReady:          {StatusCompleted, StatusCanceled},
	StatusCompleted:      {},
	StatusCanceled:       {},
}

// IsValidStatus reports whether s is known order status
func IsValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// IsTerminal reports whether order in status s can never change again
func IsTerminal(s Status) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// ValidateTransition checks the edge from -> to against the status graph
func ValidateTransition(from, to Status) error {
	next, ok := transitions[from]
	if !ok {
		return ErrInvalidTransition
	}
	for _, s := range next {
		if s == to {
			return nil
		}
	}
	return ErrInvalidTransition
}
