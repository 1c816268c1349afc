package model

import "time"

// DownloadTask represents a single download/install operation for one
// title. At most one active task exists per AppID.
type DownloadTask struct {
	ID         string // ulid, sortable by creation time
	AppID      TitleID
	Name       string
	Status     TaskStatus
	Source     string // repository that produced the artifacts, if any
	LastError  string // last error message if any
	StartedAt  time.Time
	FinishedAt time.Time
}

// DisplayName returns the task's title name, falling back to the
// AppID placeholder when the name is unknown.
func (t *DownloadTask) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.AppID.PlaceholderName()
}
