package model

import "testing"

func TestTaskStatusIsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusResolving, true},
		{TaskStatusDownloading, true},
		{TaskStatusPlacing, true},
		{TaskStatusCompleted, false},
		{TaskStatusFailed, false},
	}

	for _, test := range tests {
		if got := test.status.IsActive(); got != test.expected {
			t.Errorf("IsActive() for %s = %t, expected %t", test.status, got, test.expected)
		}
	}
}

func TestTaskStatusIsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusPending, false},
		{TaskStatusResolving, false},
		{TaskStatusDownloading, false},
		{TaskStatusPlacing, false},
		{TaskStatusCompleted, true},
		{TaskStatusFailed, true},
	}

	for _, test := range tests {
		if got := test.status.IsFinished(); got != test.expected {
			t.Errorf("IsFinished() for %s = %t, expected %t", test.status, got, test.expected)
		}
	}
}
