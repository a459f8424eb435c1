package model

import "testing"

// TestJobPhase_IsAdmitted verifies only SUBMITTED and RUNNING occupy an
// admission slot.
func TestJobPhase_IsAdmitted(t *testing.T) {
	admitted := map[JobPhase]bool{
		JobPending:   false,
		JobSubmitted: true,
		JobRunning:   true,
		JobCompleted: false,
		JobFailed:    false,
		JobResolved:  false,
	}
	for phase, want := range admitted {
		if got := phase.IsAdmitted(); got != want {
			t.Errorf("%s.IsAdmitted() = %v, want %v", phase, got, want)
		}
	}
}

// TestJobPhase_IsFinished verifies the scheduler-terminal phases.
func TestJobPhase_IsFinished(t *testing.T) {
	finished := map[JobPhase]bool{
		JobPending:   false,
		JobSubmitted: false,
		JobRunning:   false,
		JobCompleted: true,
		JobFailed:    true,
		JobResolved:  true,
	}
	for phase, want := range finished {
		if got := phase.IsFinished(); got != want {
			t.Errorf("%s.IsFinished() = %v, want %v", phase, got, want)
		}
	}
}

// TestJobPhase_Transitions spot-checks the transition table.
func TestJobPhase_Transitions(t *testing.T) {
	tests := []struct {
		from, to JobPhase
		want     bool
	}{
		{JobPending, JobSubmitted, true},
		{JobPending, JobRunning, false},
		{JobSubmitted, JobRunning, true},
		{JobSubmitted, JobCompleted, true},
		{JobSubmitted, JobFailed, true},
		{JobRunning, JobCompleted, true},
		{JobRunning, JobPending, false},
		{JobCompleted, JobResolved, true},
		{JobFailed, JobResolved, true},
		{JobResolved, JobPending, false},
		{JobResolved, JobSubmitted, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
