package driver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"hackathon-portal/models"

	"github.com/sirupsen/logrus"
)

const dataFileName = "registrations.json"

// Store persists the whole registration collection as one JSON document.
// Every mutation runs load-modify-save under the store lock, so at most one
// write is in flight at a time and concurrent requests cannot lose updates.
type Store struct {
	mu      sync.Mutex
	dataDir string
}

type document struct {
	Registrations []models.Registration `json:"registrations"`
}

// Connect prepares the data directory layout and an empty collection
// document on first run.
func Connect(dataDir string) (*Store, error) {
	s := &Store{dataDir: dataDir}
	for _, dir := range []string{dataDir, s.ScreenshotDir(), s.ReceiptDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if _, err := os.Stat(s.dataFile()); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
		logrus.WithField("file", s.dataFile()).Info("Initialized empty registration store")
	}
	return s, nil
}

func (s *Store) DataDir() string { return s.dataDir }

func (s *Store) ScreenshotDir() string {
	return filepath.Join(s.dataDir, "payment_screenshots")
}

func (s *Store) ReceiptDir() string {
	return filepath.Join(s.dataDir, "receipts")
}

func (s *Store) dataFile() string {
	return filepath.Join(s.dataDir, dataFileName)
}

// Load returns the full collection. A missing or unparsable backing file
// reads as an empty collection, never as an error.
func (s *Store) Load() []models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save replaces the entire collection.
func (s *Store) Save(regs []models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(regs)
}

// Update applies fn to the current collection and persists the result. The
// lock is held across load, mutate and save; an error from fn aborts the
// write and is returned unchanged.
func (s *Store) Update(fn func([]models.Registration) ([]models.Registration, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	regs, err := fn(s.read())
	if err != nil {
		return err
	}
	return s.write(regs)
}

// Backup snapshots the current document to a timestamped file in the data
// directory and returns its path.
func (s *Store) Backup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.dataFile())
	if err != nil {
		return "", fmt.Errorf("read %s: %w", s.dataFile(), err)
	}
	path := filepath.Join(s.dataDir, fmt.Sprintf("backup_%d.json", time.Now().UnixMilli()))
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

func (s *Store) read() []models.Registration {
	raw, err := os.ReadFile(s.dataFile())
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Warn("Error reading registrations file")
		}
		return []models.Registration{}
	}
	// The collection has shipped in two shapes, a bare array and a
	// {"registrations": [...]} document. Accept both.
	var doc document
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Registrations != nil {
		return doc.Registrations
	}
	var list []models.Registration
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	logrus.WithField("file", s.dataFile()).Warn("Registrations file unparsable, treating as empty")
	return []models.Registration{}
}

// write replaces the document atomically: marshal to a temp file in the same
// directory, then rename over the live one.
func (s *Store) write(regs []models.Registration) error {
	if regs == nil {
		regs = []models.Registration{}
	}
	raw, err := json.MarshalIndent(document{Registrations: regs}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registrations: %w", err)
	}
	tmp := s.dataFile() + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.dataFile()); err != nil {
		return fmt.Errorf("replace %s: %w", s.dataFile(), err)
	}
	return nil
}
