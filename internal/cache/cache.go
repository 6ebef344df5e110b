package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Analysis kinds cached per article.
const (
	KindSummary   = "summary"
	KindSentiment = "sentiment"
)

const DefaultTTL = 24 * time.Hour

// Store caches analysis results per (article, kind). Implementations never
// surface storage failures; a failed read is a miss and a failed write is
// logged and dropped.
type Store interface {
	Get(articleID, kind string) (string, bool)
	Put(articleID, kind, result string)
}

type fileEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Result    string    `json:"result"`
}

// FileStore keeps one JSON file per cache entry under dir. An entry is
// usable only while now - storedAt < ttl; expired entries are deleted on
// the read that finds them.
type FileStore struct {
	dir string
	ttl time.Duration
	now func() time.Time

	mu sync.Mutex
}

func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (s *FileStore) path(articleID, kind string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s.json", kind, articleID))
}

func (s *FileStore) Get(articleID, kind string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(articleID, kind)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		slog.Warn("discarding unreadable cache entry", "path", path, "error", err)
		os.Remove(path)
		return "", false
	}

	if s.now().Sub(entry.Timestamp) >= s.ttl {
		os.Remove(path)
		return "", false
	}

	return entry.Result, true
}

func (s *FileStore) Put(articleID, kind, result string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(fileEntry{Timestamp: s.now(), Result: result})
	if err != nil {
		slog.Warn("cache entry marshal failed", "article_id", articleID, "kind", kind, "error", err)
		return
	}

	path := s.path(articleID, kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Warn("cache write failed", "path", path, "error", err)
		return
	}
	if err := os.Rename(tmp, path); err != nil {
		slog.Warn("cache write failed", "path", path, "error", err)
		os.Remove(tmp)
	}
}
