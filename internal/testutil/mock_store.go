// mock_store.go - Mock storage implementation for testing
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdf-studio/backend/internal/models"
	"github.com/pdf-studio/backend/internal/storage"
)

// MockStore implements storage.Store for testing. File bytes live on
// disk under a test-owned directory; records stay in memory.
type MockStore struct {
	mu      sync.RWMutex
	dir     string
	records map[string]*models.FileRecord
	batches map[string]*models.EditBatch

	// FailWith, when set, is returned by every operation.
	FailWith error
}

var _ storage.Store = (*MockStore)(nil)

// NewMockStore creates a mock store writing under dir (usually
// t.TempDir()).
func NewMockStore(dir string) *MockStore {
	return &MockStore{
		dir:     dir,
		records: make(map[string]*models.FileRecord),
		batches: make(map[string]*models.EditBatch),
	}
}

func (m *MockStore) path(id string, rev int) string {
	return filepath.Join(m.dir, fmt.Sprintf("%s_r%d.pdf", id, rev))
}

func (m *MockStore) Save(name string, r io.Reader) (*models.FileRecord, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	f, err := os.Create(m.path(id, 0))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	size, err := io.Copy(f, r)
	if err != nil {
		return nil, err
	}

	rec := &models.FileRecord{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}
	m.records[id] = rec
	return rec, nil
}

// AddFile seeds the mock with a file record and content.
func (m *MockStore) AddFile(name string, data []byte) *models.FileRecord {
	rec, err := m.Save(name, bytes.NewReader(data))
	if err != nil {
		panic(err)
	}
	return rec
}

func (m *MockStore) Get(id string) (*models.FileRecord, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	return rec, nil
}

func (m *MockStore) List(limit int) ([]*models.FileRecord, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var list []*models.FileRecord
	for _, rec := range m.records {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockStore) Delete(id string) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return fmt.Errorf("file not found: %s", id)
	}
	for rev := 0; rev <= rec.Revision; rev++ {
		os.Remove(m.path(id, rev))
	}
	delete(m.records, id)
	return nil
}

func (m *MockStore) Update(rec *models.FileRecord) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[rec.ID]; !ok {
		return fmt.Errorf("file not found: %s", rec.ID)
	}
	m.records[rec.ID] = rec
	return nil
}

func (m *MockStore) FilePath(id string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return m.path(id, rec.Revision), nil
}

func (m *MockStore) StagePath(id string) (string, error) {
	if m.FailWith != nil {
		return "", m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return m.path(id, rec.Revision+1) + ".staging", nil
}

func (m *MockStore) CommitRevision(id, stagedPath string, batch *models.EditBatch) (*models.FileRecord, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}

	nextRev := rec.Revision + 1
	if err := os.Rename(stagedPath, m.path(id, nextRev)); err != nil {
		return nil, err
	}

	updated := *rec
	updated.Revision = nextRev
	updated.Status = "edited"
	updated.EditIDs = append(append([]string(nil), rec.EditIDs...), batch.ID)
	if !batch.Metadata.IsZero() {
		updated.Metadata = batch.Metadata
	}

	m.records[id] = &updated
	m.batches[batch.ID] = batch
	return &updated, nil
}

func (m *MockStore) GetEditBatch(editID string) (*models.EditBatch, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	batch, ok := m.batches[editID]
	if !ok {
		return nil, fmt.Errorf("edit not found: %s", editID)
	}
	return batch, nil
}

// GetFileCount returns the number of stored records.
func (m *MockStore) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
