package download

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/oracleapp/oracle/internal/dlc"
	"github.com/oracleapp/oracle/internal/fetch"
	"github.com/oracleapp/oracle/internal/library"
	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/place"
)

// Service handles download and update operations
type Service struct {
	tasks      map[string]*model.DownloadTask
	tasksMutex sync.RWMutex

	fetcher *fetch.Fetcher
	placer  *place.Engine
	indexer *library.Indexer
	syncer  *dlc.Engine
	locks   *library.Locks

	onUpdate func(*model.DownloadTask) // callback for UI updates
}

// NewService creates a new download service
func NewService(fetcher *fetch.Fetcher, placer *place.Engine, indexer *library.Indexer, syncer *dlc.Engine, locks *library.Locks) *Service {
	return &Service{
		tasks:   make(map[string]*model.DownloadTask),
		fetcher: fetcher,
		placer:  placer,
		indexer: indexer,
		syncer:  syncer,
		locks:   locks,
	}
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.onUpdate = callback
}

// GetTask returns a task by ID
func (s *Service) GetTask(id string) (*model.DownloadTask, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	return task, exists
}

// GetAllTasks returns all tasks
func (s *Service) GetAllTasks() []*model.DownloadTask {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]*model.DownloadTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task)
	}
	return tasks
}

// DownloadAndInstall resolves, fetches and places the title's files,
// then folds the result into the library model. It runs under the
// title's lock: a second call for the same AppID while one is in
// flight is rejected. Source exhaustion is not an error return; it is
// reported through the task's Failed status so callers can distinguish
// "no working source" from configuration faults.
func (s *Service) DownloadAndInstall(ctx context.Context, id model.TitleID, name string) (*model.DownloadTask, error) {
	if !s.locks.TryLock(id) {
		return nil, fmt.Errorf("download already in progress for AppID %d", id)
	}
	defer s.locks.Unlock(id)

	task := s.newTask(id, name)

	s.setStatus(task, model.TaskStatusResolving)
	s.setStatus(task, model.TaskStatusDownloading)

	artifacts, report, err := s.fetcher.DownloadTitle(ctx, id)
	if err != nil {
		s.fail(task, err)
		if errors.Is(err, fetch.ErrDownloadFailed) {
			log.Printf("No working source for AppID %d: %s", id, report.Summary())
			return task, nil
		}
		return task, err
	}
	if len(report.Attempts) > 0 {
		task.Source = report.Attempts[len(report.Attempts)-1].Source
	}

	s.setStatus(task, model.TaskStatusPlacing)
	if err := s.placer.Place(artifacts, id); err != nil {
		s.fail(task, err)
		return task, err
	}

	s.indexer.ApplyUpdate(id, artifacts, name)

	s.tasksMutex.Lock()
	task.Status = model.TaskStatusCompleted
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	log.Printf("Installed AppID %d from %s", id, task.Source)
	return task, nil
}

// UpdateTitle re-downloads the title's archive, harvests the new
// depot manifest ids from it, and rewrites the descriptor's
// setManifestid calls. Returns a human-readable confirmation.
func (s *Service) UpdateTitle(ctx context.Context, id model.TitleID, name string) (string, error) {
	if !s.locks.TryLock(id) {
		return "", fmt.Errorf("operation already in progress for AppID %d", id)
	}
	defer s.locks.Unlock(id)

	// The descriptor must exist before there is anything to update.
	if _, err := s.placer.ReadDescriptor(id); err != nil {
		return "", fmt.Errorf("%w (AppID %d): %v", dlc.ErrDescriptorUnreadable, id, err)
	}

	artifacts, _, err := s.fetcher.DownloadTitle(ctx, id)
	if err != nil {
		return "", err
	}

	manifests := fetch.ManifestIDs(artifacts)
	if len(manifests) == 0 {
		return "", fmt.Errorf("no manifest files found in the downloaded archive for AppID %d", id)
	}

	updated, appended, err := s.syncer.ApplyManifestIDs(id, manifests)
	if err != nil {
		return "", err
	}

	displayName := name
	if displayName == "" {
		displayName = id.PlaceholderName()
	}
	message := fmt.Sprintf("Update for %s complete. Updated: %d, Appended: %d.", displayName, updated, appended)
	log.Print(message)
	return message, nil
}

func (s *Service) newTask(id model.TitleID, name string) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:        ulid.Make().String(),
		AppID:     id,
		Name:      name,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}

	s.tasksMutex.Lock()
	s.tasks[task.ID] = task
	s.tasksMutex.Unlock()

	s.notifyUpdate(task)
	return task
}

func (s *Service) setStatus(task *model.DownloadTask, status model.TaskStatus) {
	s.tasksMutex.Lock()
	task.Status = status
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

func (s *Service) fail(task *model.DownloadTask, err error) {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusFailed
	task.LastError = err.Error()
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)
}

// notifyUpdate calls the update callback if set
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	if s.onUpdate != nil {
		s.onUpdate(task)
	}
}
