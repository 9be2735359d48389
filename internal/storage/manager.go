package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/pdf-studio/backend/internal/models"
)

var (
	bucketFiles = []byte("files")
	bucketEdits = []byte("edits")
)

// Store defines the interface for document storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileRecord, error)
	Get(id string) (*models.FileRecord, error)
	List(limit int) ([]*models.FileRecord, error)
	Delete(id string) error
	Update(rec *models.FileRecord) error

	// FilePath returns the on-disk path of the current revision.
	FilePath(id string) (string, error)

	// StagePath returns a scratch path for building the next revision.
	StagePath(id string) (string, error)

	// CommitRevision promotes a staged file to the next revision and
	// records the edit batch that produced it.
	CommitRevision(id, stagedPath string, batch *models.EditBatch) (*models.FileRecord, error)

	// GetEditBatch returns a stored edit batch by ID.
	GetEditBatch(editID string) (*models.EditBatch, error)
}

// LocalStore keeps document bytes on the local filesystem and the
// catalog in a bbolt database so records survive restarts.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	db        *bolt.DB
	records   map[string]*models.FileRecord
}

// NewLocalStore opens (or creates) the catalog database and loads all
// existing records into memory.
func NewLocalStore(uploadDir, catalogPath string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(catalogPath), 0755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	db, err := bolt.Open(catalogPath, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketFiles); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketEdits)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	s := &LocalStore{
		uploadDir: uploadDir,
		db:        db,
		records:   make(map[string]*models.FileRecord),
	}
	if err := s.loadCatalog(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) loadCatalog() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFiles)
		return b.ForEach(func(k, v []byte) error {
			var rec models.FileRecord
			if err := msgpack.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding record %s: %w", k, err)
			}
			s.records[rec.ID] = &rec
			return nil
		})
	})
}

// Close closes the catalog database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

func (s *LocalStore) putRecord(rec *models.FileRecord) error {
	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFiles).Put([]byte(rec.ID), data)
	})
}

func revisionName(id string, revision int) string {
	return fmt.Sprintf("%s_r%d.pdf", id, revision)
}

// Save stores a new document at revision 0.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileRecord, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, revisionName(id, 0))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	rec := &models.FileRecord{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Status:     "uploaded",
		Revision:   0,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.putRecord(rec); err != nil {
		os.Remove(path)
		return nil, err
	}
	s.records[id] = rec

	return rec, nil
}

// Get retrieves a record by ID.
func (s *LocalStore) Get(id string) (*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}
	return rec, nil
}

// List returns the most recently uploaded records.
func (s *LocalStore) List(limit int) ([]*models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.FileRecord
	for _, rec := range s.records {
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

// Delete removes a record, all its revision files, and its edit batches.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return fmt.Errorf("file not found: %s", id)
	}

	for rev := 0; rev <= rec.Revision; rev++ {
		path := filepath.Join(s.uploadDir, revisionName(id, rev))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("deleting revision %d: %w", rev, err)
		}
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketFiles).Delete([]byte(id)); err != nil {
			return err
		}
		edits := tx.Bucket(bucketEdits)
		for _, editID := range rec.EditIDs {
			if err := edits.Delete([]byte(editID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}

	delete(s.records, id)
	return nil
}

// Update persists changes to a record already in the catalog.
func (s *LocalStore) Update(rec *models.FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[rec.ID]; !ok {
		return fmt.Errorf("file not found: %s", rec.ID)
	}
	if err := s.putRecord(rec); err != nil {
		return err
	}
	s.records[rec.ID] = rec
	return nil
}

// FilePath returns the path of the current revision.
func (s *LocalStore) FilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return filepath.Join(s.uploadDir, revisionName(id, rec.Revision)), nil
}

// StagePath returns the path where the next revision should be written.
func (s *LocalStore) StagePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return "", fmt.Errorf("file not found: %s", id)
	}
	return filepath.Join(s.uploadDir, revisionName(id, rec.Revision+1)+".staging"), nil
}

// CommitRevision promotes a staged file to the next revision and
// records the edit batch. The previous revision file is kept so a
// delete can clean up everything.
func (s *LocalStore) CommitRevision(id, stagedPath string, batch *models.EditBatch) (*models.FileRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}

	nextRev := rec.Revision + 1
	finalPath := filepath.Join(s.uploadDir, revisionName(id, nextRev))
	if err := os.Rename(stagedPath, finalPath); err != nil {
		return nil, fmt.Errorf("promoting staged revision: %w", err)
	}

	info, err := os.Stat(finalPath)
	if err != nil {
		return nil, fmt.Errorf("stat new revision: %w", err)
	}

	updated := *rec
	updated.Revision = nextRev
	updated.Size = info.Size()
	updated.Status = "edited"
	updated.EditIDs = append(append([]string(nil), rec.EditIDs...), batch.ID)
	if !batch.Metadata.IsZero() {
		updated.Metadata = batch.Metadata
	}

	batchData, err := msgpack.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("encoding edit batch: %w", err)
	}
	recData, err := msgpack.Marshal(&updated)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketEdits).Put([]byte(batch.ID), batchData); err != nil {
			return err
		}
		return tx.Bucket(bucketFiles).Put([]byte(id), recData)
	})
	if err != nil {
		return nil, fmt.Errorf("committing revision: %w", err)
	}

	s.records[id] = &updated
	return &updated, nil
}

// GetEditBatch returns a stored edit batch by ID.
func (s *LocalStore) GetEditBatch(editID string) (*models.EditBatch, error) {
	var batch models.EditBatch
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketEdits).Get([]byte(editID))
		if v == nil {
			return fmt.Errorf("edit not found: %s", editID)
		}
		return msgpack.Unmarshal(v, &batch)
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}
