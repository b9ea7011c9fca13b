package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/valter-silva-au/time-optimizer/pkg/models"
	"gopkg.in/yaml.v3"
)

const (
	schedulesDir       = "schedules"
	scheduleFilePrefix = "schedule_"
	dateLayout         = "2006-01-02"
	fileDateLayout     = "20060102"
)

// ScheduleStore persists one generated schedule per calendar day.
type ScheduleStore interface {
	SaveSchedule(schedule models.DailySchedule) error
	LoadSchedule(date string) (*models.DailySchedule, error)
	ListDates() ([]string, error)
	DeleteSchedule(date string) error
}

type fileScheduleStore struct {
	basePath string
}

// NewScheduleStore creates a ScheduleStore writing
// schedules/schedule_YYYYMMDD.yaml files under basePath.
func NewScheduleStore(basePath string) ScheduleStore {
	return &fileScheduleStore{basePath: basePath}
}

func (s *fileScheduleStore) dir() string {
	return filepath.Join(s.basePath, schedulesDir)
}

// filePath maps a YYYY-MM-DD date to its schedule file.
func (s *fileScheduleStore) filePath(date string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", date, err)
	}
	return filepath.Join(s.dir(), scheduleFilePrefix+d.Format(fileDateLayout)+".yaml"), nil
}

func (s *fileScheduleStore) SaveSchedule(schedule models.DailySchedule) error {
	path, err := s.filePath(schedule.Date)
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	if err := os.MkdirAll(s.dir(), 0o750); err != nil {
		return fmt.Errorf("saving schedule: creating directory: %w", err)
	}
	data, err := yaml.Marshal(&schedule)
	if err != nil {
		return fmt.Errorf("saving schedule: marshaling YAML: %w", err)
	}
	if err := writeFileLocked(s.basePath, path, data); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	return nil
}

func (s *fileScheduleStore) LoadSchedule(date string) (*models.DailySchedule, error) {
	path, err := s.filePath(date)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading schedule: %w", err)
	}

	var schedule models.DailySchedule
	if err := yaml.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("loading schedule: parsing YAML: %w", err)
	}
	if schedule.Entries == nil {
		schedule.Entries = []models.ScheduleEntry{}
	}
	return &schedule, nil
}

// ListDates returns the dates with a saved schedule, oldest first.
func (s *fileScheduleStore) ListDates() ([]string, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing schedules: %w", err)
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, scheduleFilePrefix) || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		raw := strings.TrimSuffix(strings.TrimPrefix(name, scheduleFilePrefix), ".yaml")
		d, err := time.Parse(fileDateLayout, raw)
		if err != nil {
			continue // not one of ours
		}
		dates = append(dates, d.Format(dateLayout))
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *fileScheduleStore) DeleteSchedule(date string) error {
	path, err := s.filePath(date)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("deleting schedule: no schedule saved for %s", date)
		}
		return fmt.Errorf("deleting schedule: %w", err)
	}
	return nil
}
