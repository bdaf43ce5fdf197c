package models

import "testing"

// TestTaskCompleted verifies that a missing progress row counts as incomplete.
func TestTaskCompleted(t *testing.T) {
	tests := []struct {
		name     string
		progress *TaskProgress
		want     bool
	}{
		{name: "no progress row", progress: nil, want: false},
		{name: "progress incomplete", progress: &TaskProgress{Completed: false}, want: false},
		{name: "progress complete", progress: &TaskProgress{Completed: true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Progress: tt.progress}
			if got := task.Completed(); got != tt.want {
				t.Errorf("Task{Progress: %+v}.Completed() = %v, want %v", tt.progress, got, tt.want)
			}
		})
	}
}
