// Package preview caches per-file preview state so a preview request
// is served from the backend exactly once per file revision.
package preview

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// MaxEntries limits cached previews to bound memory.
const MaxEntries = 64

// KeepAliveWindow protects recently used entries from cleanup.
const KeepAliveWindow = 5 * time.Minute

// Resource is the cached preview state for one file revision.
type Resource struct {
	FileID       string
	Revision     int
	PageCount    int
	LastAccessed time.Time
}

// Counter produces the page count for a file's current revision.
type Counter func(fileID string) (pageCount int, revision int, err error)

// Manager holds cached preview resources.
type Manager struct {
	mu      sync.Mutex
	entries map[string]*Resource
	count   Counter
	log     *zap.Logger
}

// NewManager creates a preview manager backed by the given counter.
func NewManager(count Counter, log *zap.Logger) *Manager {
	return &Manager{
		entries: make(map[string]*Resource),
		count:   count,
		log:     log,
	}
}

// Get returns the preview resource for a file, building it on first
// access and rebuilding it when the file's revision has moved on.
func (m *Manager) Get(fileID string) (*Resource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pageCount, revision, err := m.count(fileID)
	if err != nil {
		return nil, err
	}

	if res, ok := m.entries[fileID]; ok && res.Revision == revision {
		res.LastAccessed = time.Now()
		return res, nil
	}

	m.evictIfNeededLocked()

	res := &Resource{
		FileID:       fileID,
		Revision:     revision,
		PageCount:    pageCount,
		LastAccessed: time.Now(),
	}
	m.entries[fileID] = res
	m.log.Debug("preview resource built",
		zap.String("fileId", fileID),
		zap.Int("revision", revision),
		zap.Int("pageCount", pageCount))
	return res, nil
}

// Invalidate drops the cached resource for a file, forcing a rebuild
// on the next request. Called after edits and deletes.
func (m *Manager) Invalidate(fileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, fileID)
}

// Len returns the number of cached resources.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Manager) evictIfNeededLocked() {
	if len(m.entries) < MaxEntries {
		return
	}
	var oldestID string
	var oldest time.Time
	for id, res := range m.entries {
		if oldestID == "" || res.LastAccessed.Before(oldest) {
			oldestID = id
			oldest = res.LastAccessed
		}
	}
	if oldestID != "" {
		delete(m.entries, oldestID)
	}
}

// CleanupOld removes entries not accessed within maxAge, keeping
// anything used inside the keep-alive window.
func (m *Manager) CleanupOld(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAlive := time.Now().Add(-KeepAliveWindow)

	for id, res := range m.entries {
		if res.LastAccessed.After(keepAlive) {
			continue
		}
		if res.LastAccessed.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}
