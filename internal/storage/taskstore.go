// Package storage provides file-backed persistence for the task list and the
// generated daily schedules, both stored as YAML.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
	"gopkg.in/yaml.v3"
)

// TaskFilter specifies criteria for filtering saved tasks. Types match any
// listed type; Tags match when the task carries any listed tag. Empty fields
// match everything. Comparisons ignore case.
type TaskFilter struct {
	Types []models.TaskType
	Tags  []string
}

// TaskFile represents the top-level structure of tasks.yaml.
type TaskFile struct {
	Version     string        `yaml:"version"`
	LastUpdated string        `yaml:"last_updated,omitempty"`
	Tasks       []models.Task `yaml:"tasks"`
}

// TaskEditor edits the task list inside Modify.
type TaskEditor interface {
	AddTask(task models.Task) error
	UpdateTask(name string, updates models.Task) error
	RemoveTask(name string) error
	GetTask(name string) (*models.Task, error)
}

// TaskStore defines the interface for managing the saved task list.
// Tasks keep the order in which they were added, which is also the
// tie-break order the scheduler uses.
//
// Reads serve the list as of the last Load. Modify reloads the file, applies
// the edit and saves it while holding the base path lock, so the CLI and a
// running MCP server never lose each other's updates. After a failed Load
// the store refuses to save until a Load succeeds or Clear is called.
type TaskStore interface {
	TaskEditor
	GetAllTasks() ([]models.Task, error)
	FilterTasks(filter TaskFilter) ([]models.Task, error)
	Modify(fn func(TaskEditor) error) error
	Clear() error
	LastUpdated() string
	Load() error
	Save() error
}

// fileTaskStore takes the file lock before mu whenever it needs both.
type fileTaskStore struct {
	basePath string
	now      func() time.Time

	mu      sync.RWMutex
	data    TaskFile
	loadErr error
}

// NewTaskStore creates a TaskStore backed by a tasks.yaml file in the given
// base directory.
func NewTaskStore(basePath string) TaskStore {
	return &fileTaskStore{
		basePath: basePath,
		data:     TaskFile{Version: "1.0"},
		now:      time.Now,
	}
}

func (s *fileTaskStore) filePath() string {
	return filepath.Join(s.basePath, "tasks.yaml")
}

func (s *fileTaskStore) AddTask(task models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taskList{&s.data}.AddTask(task)
}

func (s *fileTaskStore) UpdateTask(name string, updates models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taskList{&s.data}.UpdateTask(name, updates)
}

func (s *fileTaskStore) RemoveTask(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taskList{&s.data}.RemoveTask(name)
}

func (s *fileTaskStore) GetTask(name string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return taskList{&s.data}.GetTask(name)
}

func (s *fileTaskStore) GetAllTasks() ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data.Tasks), nil
}

func (s *fileTaskStore) FilterTasks(filter TaskFilter) ([]models.Task, error) {
	all, err := s.GetAllTasks()
	if err != nil {
		return nil, err
	}

	var result []models.Task
	for _, task := range all {
		if matchesFilter(task, filter) {
			result = append(result, task)
		}
	}
	return result, nil
}

func matchesFilter(task models.Task, filter TaskFilter) bool {
	if len(filter.Types) > 0 && !containsType(filter.Types, task.Type) {
		return false
	}
	if len(filter.Tags) > 0 && !hasAnyTag(task, filter.Tags) {
		return false
	}
	return true
}

func containsType(haystack []models.TaskType, needle models.TaskType) bool {
	for _, t := range haystack {
		if strings.EqualFold(string(t), string(needle)) {
			return true
		}
	}
	return false
}

func hasAnyTag(task models.Task, tags []string) bool {
	for _, tag := range tags {
		if task.HasTag(tag) {
			return true
		}
	}
	return false
}

// Modify reloads the list, applies fn to a copy and saves the copy, holding
// the file lock for the whole sequence. Nothing is written, and the in-memory
// list is left as reloaded, when the reload or fn fails.
func (s *fileTaskStore) Modify(fn func(TaskEditor) error) error {
	return withLock(s.basePath, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		if err := s.loadLocked(); err != nil {
			return err
		}
		draft := s.data
		draft.Tasks = slices.Clone(s.data.Tasks)
		if err := fn(taskList{&draft}); err != nil {
			return err
		}

		data, err := s.encodeLocked(&draft)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(s.filePath(), data); err != nil {
			return fmt.Errorf("saving tasks: %w", err)
		}
		s.data = draft
		return nil
	})
}

// Clear deletes tasks.yaml under the lock. It is the way out of a file that
// no longer parses.
func (s *fileTaskStore) Clear() error {
	err := withLock(s.basePath, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if err := os.Remove(s.filePath()); err != nil && !os.IsNotExist(err) {
			return err
		}
		s.data = TaskFile{Version: "1.0"}
		s.loadErr = nil
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	return nil
}

func (s *fileTaskStore) LastUpdated() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data.LastUpdated == "" {
		return "Unknown"
	}
	return s.data.LastUpdated
}

// Load replaces the in-memory list with the file's contents. A missing file
// loads as an empty list.
func (s *fileTaskStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *fileTaskStore) loadLocked() error {
	data, err := os.ReadFile(s.filePath())
	if os.IsNotExist(err) {
		s.data = TaskFile{Version: "1.0"}
		s.loadErr = nil
		return nil
	}
	if err != nil {
		s.loadErr = fmt.Errorf("loading tasks: %w", err)
		return s.loadErr
	}

	var tf TaskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		s.loadErr = fmt.Errorf("loading tasks: parsing %s: %w", filepath.Base(s.filePath()), err)
		return s.loadErr
	}
	if tf.Version == "" {
		tf.Version = "1.0"
	}
	s.data = tf
	s.loadErr = nil
	return nil
}

// Save writes the in-memory list under the lock.
func (s *fileTaskStore) Save() error {
	return withLock(s.basePath, func() error {
		s.mu.Lock()
		defer s.mu.Unlock()

		data, err := s.encodeLocked(&s.data)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(s.filePath(), data); err != nil {
			return fmt.Errorf("saving tasks: %w", err)
		}
		return nil
	})
}

func (s *fileTaskStore) encodeLocked(tf *TaskFile) ([]byte, error) {
	if s.loadErr != nil {
		return nil, fmt.Errorf("saving tasks: refusing to overwrite a file that failed to load: %w", s.loadErr)
	}
	tf.LastUpdated = s.now().UTC().Format(time.RFC3339)
	data, err := yaml.Marshal(tf)
	if err != nil {
		return nil, fmt.Errorf("saving tasks: marshaling YAML: %w", err)
	}
	return data, nil
}

// taskList applies edits to a TaskFile. Callers serialize access.
type taskList struct {
	file *TaskFile
}

func (l taskList) indexOf(name string) int {
	return slices.IndexFunc(l.file.Tasks, func(t models.Task) bool { return t.Name == name })
}

func (l taskList) AddTask(task models.Task) error {
	task.Name = strings.TrimSpace(task.Name)
	if task.Name == "" {
		return fmt.Errorf("adding task: name must not be empty")
	}
	if l.indexOf(task.Name) >= 0 {
		return fmt.Errorf("adding task: task %q already exists", task.Name)
	}
	l.file.Tasks = append(l.file.Tasks, task)
	return nil
}

// UpdateTask overwrites the non-zero fields of updates. A non-nil empty Tags
// slice clears the tags.
func (l taskList) UpdateTask(name string, updates models.Task) error {
	i := l.indexOf(name)
	if i < 0 {
		return fmt.Errorf("updating task: task %q not found", name)
	}
	existing := l.file.Tasks[i]

	if updates.Duration != 0 {
		existing.Duration = updates.Duration
	}
	if updates.Priority != 0 {
		existing.Priority = updates.Priority
	}
	if updates.Energy != "" {
		existing.Energy = updates.Energy
	}
	if updates.Type != "" {
		existing.Type = updates.Type
	}
	if updates.Tags != nil {
		existing.Tags = updates.Tags
	}

	l.file.Tasks[i] = existing
	return nil
}

func (l taskList) RemoveTask(name string) error {
	i := l.indexOf(name)
	if i < 0 {
		return fmt.Errorf("removing task: task %q not found", name)
	}
	l.file.Tasks = slices.Delete(l.file.Tasks, i, i+1)
	return nil
}

func (l taskList) GetTask(name string) (*models.Task, error) {
	i := l.indexOf(name)
	if i < 0 {
		return nil, fmt.Errorf("task %q not found", name)
	}
	task := l.file.Tasks[i]
	return &task, nil
}
