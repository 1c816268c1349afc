package model

// TaskStatus represents the status of a download/install task
type TaskStatus string

const (
	// TaskStatusPending means the task is created but not started
	TaskStatusPending TaskStatus = "Pending"

	// TaskStatusResolving means candidate sources are being resolved
	TaskStatusResolving TaskStatus = "Resolving"

	// TaskStatusDownloading means artifacts are being fetched
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusPlacing means artifacts are being written to the
	// managed directories
	TaskStatusPlacing TaskStatus = "Placing"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusFailed means the task failed with an error
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task is in an active state
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusResolving || ts == TaskStatusDownloading || ts == TaskStatusPlacing
}

// IsFinished returns true if the task is in a finished state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusFailed
}
