package service

// Outcome labels shared by the metrics recorder and its callers.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics records business-level counters.
type Metrics interface {
	// ObserveLogin counts a login attempt by outcome (success, unknown_user, bad_password, error).
	ObserveLogin(outcome string)

	// ObserveRegistration counts a registration attempt by outcome.
	ObserveRegistration(outcome string)

	// ObserveTokenRejection counts a rejected request by internal reason.
	ObserveTokenRejection(reason string)

	// ObserveFollowOperation counts follow/unfollow attempts by operation and outcome.
	ObserveFollowOperation(operation, outcome string)
}
