// File: attempt.go
package main

// AttemptController tracks remaining attempts and the user status.
// success and blocked are terminal; failed waits for an explicit Retry.
type AttemptController struct {
	remaining int
	status    UserStatus
}

func NewAttemptController(maxAttempts int) *AttemptController {
	return &AttemptController{remaining: maxAttempts, status: StatusPending}
}

// Record applies one validation outcome and returns the resulting status.
// Results arriving in a terminal state are ignored.
func (a *AttemptController) Record(success bool) UserStatus {
	if a.status.Terminal() {
		return a.status
	}
	if success {
		a.status = StatusSuccess
		return a.status
	}
	a.remaining--
	if a.remaining <= 0 {
		a.remaining = 0
		a.status = StatusBlocked
	} else {
		a.status = StatusFailed
	}
	return a.status
}

// Retry moves failed back to pending. It is a no-op in every other state.
func (a *AttemptController) Retry() bool {
	if a.status != StatusFailed {
		return false
	}
	a.status = StatusPending
	return true
}

func (a *AttemptController) Status() UserStatus { return a.status }

func (a *AttemptController) Remaining() int { return a.remaining }

func (a *AttemptController) State() AttemptState {
	return AttemptState{AttemptsRemaining: a.remaining, UserStatus: a.status}
}
