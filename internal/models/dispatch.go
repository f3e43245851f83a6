package models

// DispatchResult is terminal kind of one dispatch attempt
type DispatchResult string

const (
	DispatchSent    DispatchResult = "SENT"
	DispatchFailed  DispatchResult = "FAILED"
	DispatchSkipped DispatchResult = "SKIPPED"
)

// SkipReason explains why dispatch was an idempotent no-op
type SkipReason string

const (
	SkipNotFound           SkipReason = "NOT_FOUND"
	SkipNotReady           SkipReason = "NOT_READY"
	SkipNotOptedIn         SkipReason = "NOT_OPTED_IN"
	SkipMissingDestination SkipReason = "MISSING_DESTINATION"
	SkipAlreadySent        SkipReason = "ALREADY_SENT"
)

// DispatchOutcome is result of one ready-notification attempt.
// A skip is a normal no-op, not an error.
type DispatchOutcome struct {
	Result     DispatchResult
	SkipReason SkipReason
	MessageID  string
	Error      string
}

// Sent reports whether the attempt actually delivered to the provider
func (o DispatchOutcome) Sent() bool {
	return o.Result == DispatchSent
}

// SkipOutcome creates skipped outcome with reason
func SkipOutcome(reason SkipReason) DispatchOutcome {
	return DispatchOutcome{Result: DispatchSkipped, SkipReason: reason}
}

// SentOutcome creates successful outcome with provider message id
func SentOutcome(messageID string) DispatchOutcome {
	return DispatchOutcome{Result: DispatchSent, MessageID: messageID}
}

// FailedOutcome creates failed outcome with reason, claim has been rolled back
func FailedOutcome(reason string) DispatchOutcome {
	return DispatchOutcome{Result: DispatchFailed, Error: reason}
}
