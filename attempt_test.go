package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttemptController_FailuresUntilBlocked(t *testing.T) {
	a := NewAttemptController(3)
	assert.Equal(t, AttemptState{AttemptsRemaining: 3, UserStatus: StatusPending}, a.State())

	assert.Equal(t, StatusFailed, a.Record(false))
	assert.Equal(t, 2, a.Remaining())
	assert.True(t, a.Retry())

	assert.Equal(t, StatusFailed, a.Record(false))
	assert.Equal(t, 1, a.Remaining())
	assert.True(t, a.Retry())

	assert.Equal(t, StatusBlocked, a.Record(false))
	assert.Equal(t, 0, a.Remaining())

	assert.False(t, a.Retry(), "blocked is terminal")
	assert.Equal(t, StatusBlocked, a.Record(true))
	assert.Equal(t, StatusBlocked, a.Status())
}

func TestAttemptController_SuccessFreezesAttempts(t *testing.T) {
	tests := []struct {
		name     string
		failures int
		want     int
	}{
		{"first try", 0, 3},
		{"after one failure", 1, 2},
		{"after two failures", 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAttemptController(3)
			for i := 0; i < tt.failures; i++ {
				a.Record(false)
				a.Retry()
			}
			assert.Equal(t, StatusSuccess, a.Record(true))
			assert.Equal(t, tt.want, a.Remaining())

			assert.Equal(t, StatusSuccess, a.Record(false))
			assert.Equal(t, tt.want, a.Remaining())
			assert.False(t, a.Retry())
		})
	}
}

func TestAttemptController_RetryOnlyFromFailed(t *testing.T) {
	a := NewAttemptController(3)
	assert.False(t, a.Retry(), "pending")
	a.Record(false)
	assert.True(t, a.Retry())
	assert.Equal(t, StatusPending, a.Status())
	assert.Equal(t, 2, a.Remaining(), "retry does not restore attempts")
	assert.False(t, a.Retry(), "already pending")
}

func TestAttemptController_SingleAttempt(t *testing.T) {
	a := NewAttemptController(1)
	assert.Equal(t, StatusBlocked, a.Record(false))
	assert.Equal(t, 0, a.Remaining())
}
