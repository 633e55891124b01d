package installer

import "testing"

func TestTransition(t *testing.T) {
	tests := []struct {
		name    string
		state   State
		event   Event
		want    State
		wantErr bool
	}{
		{name: "begin", state: StateNotStarted, event: EventBegin, want: StateProbing},
		{name: "probed", state: StateProbing, event: EventProbed, want: StateValidating},
		{name: "validated", state: StateValidating, event: EventValidated, want: StateConfiguringInputs},
		{name: "blocked", state: StateValidating, event: EventBlocked, want: StateGated},
		{name: "override", state: StateGated, event: EventOverridden, want: StateConfiguringInputs},
		{name: "gate abort", state: StateGated, event: EventFatal, want: StateAborted},
		{name: "backup route", state: StateConfiguringInputs, event: EventBackupNeeded, want: StateBackingUp},
		{name: "skip backup", state: StateConfiguringInputs, event: EventConfigured, want: StateExecutingSteps},
		{name: "backed up", state: StateBackingUp, event: EventBackedUp, want: StateExecutingSteps},
		{name: "backup abort", state: StateBackingUp, event: EventFatal, want: StateAborted},
		{name: "completed", state: StateExecutingSteps, event: EventCompleted, want: StateDone},
		{name: "step abort", state: StateExecutingSteps, event: EventFatal, want: StateAborted},

		{name: "cannot re-begin", state: StateProbing, event: EventBegin, wantErr: true},
		{name: "cannot skip probing", state: StateNotStarted, event: EventValidated, wantErr: true},
		{name: "done is terminal", state: StateDone, event: EventBegin, wantErr: true},
		{name: "aborted is terminal", state: StateAborted, event: EventCompleted, wantErr: true},
		{name: "backup only from configuring", state: StateValidating, event: EventBackupNeeded, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.state, tt.event)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Transition(%s, %s) expected error, got %v", tt.state, tt.event, got)
				}
				if got != tt.state {
					t.Errorf("failed transition moved state to %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition(%s, %s) unexpected error: %v", tt.state, tt.event, err)
			}
			if got != tt.want {
				t.Errorf("Transition(%s, %s) = %v, want %v", tt.state, tt.event, got, tt.want)
			}
		})
	}
}
