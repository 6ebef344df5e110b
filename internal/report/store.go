package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"pollpulse/internal/model"
)

// Store persists the pipeline's run artifact. Latest returns nil, nil when
// no report has been persisted yet.
type Store interface {
	Save(report *model.TrendReport) error
	Latest() (*model.TrendReport, error)
}

const (
	filePrefix     = "trend_summary_"
	fileTimeLayout = "2006-01-02_15-04"
	latestFilename = "trend_summary_latest.json"
)

// FileStore writes one timestamped JSON file per run plus a latest alias
// that always points at the most recent successfully persisted report.
type FileStore struct {
	dir string
	now func() time.Time
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report dir: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) Save(report *model.TrendReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	name := filePrefix + s.now().Format(fileTimeLayout) + ".json"
	if err := writeAtomic(filepath.Join(s.dir, name), data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	// the alias is updated only after the timestamped write succeeded
	if err := writeAtomic(filepath.Join(s.dir, latestFilename), data); err != nil {
		return fmt.Errorf("updating latest alias: %w", err)
	}
	return nil
}

func (s *FileStore) Latest() (*model.TrendReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(s.dir, latestFilename))
	if os.IsNotExist(err) {
		data, err = s.readNewestTimestamped()
		if data == nil {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest report: %w", err)
	}

	var report model.TrendReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("decoding latest report: %w", err)
	}
	return &report, nil
}

// readNewestTimestamped recovers the newest run file when the alias is
// missing. The timestamp layout sorts lexicographically, so filename
// order is chronological order.
func (s *FileStore) readNewestTimestamped() ([]byte, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scanning report dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json") && name != latestFilename {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}

	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return os.ReadFile(filepath.Join(s.dir, names[0]))
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
