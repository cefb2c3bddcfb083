package bayes

import (
	"crypto/rand"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/simplebayes/simplebayes/bayes/category"
)

const persistedModelVersion = 2
const defaultModelFilePath = "/tmp/simplebayes.gob"

type tempFile interface {
	io.Writer
	Sync() error
	Close() error
	Name() string
}

var (
	errNilWriter          = errors.New("writer is nil")
	errNilReader          = errors.New("reader is nil")
	errPathNotAbsolute    = errors.New("path must be absolute")
	errUnsupportedVersion = errors.New("unsupported model version")
	createTemp            = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	renameFile            = os.Rename
	removeFile            = os.Remove
)

var (
	snapshotMu      sync.Mutex
	snapshotEntropy = ulid.Monotonic(rand.Reader, 0)
)

// NewSnapshotID returns a time-ordered unique identifier for one persisted
// model snapshot.
func NewSnapshotID() string {
	snapshotMu.Lock()
	defer snapshotMu.Unlock()
	return ulid.MustNew(ulid.Now(), snapshotEntropy).String()
}

type modelState struct {
	Version    int
	SnapshotID string
	Categories map[string]category.PersistedCategory
}

// Save writes classifier model data to a writer using gob encoding. Each
// save is stamped with a fresh snapshot ID.
func (c *Classifier) Save(w io.Writer) error {
	if w == nil {
		return errNilWriter
	}

	state := modelState{
		Version:    persistedModelVersion,
		SnapshotID: NewSnapshotID(),
		Categories: c.ExportStates(),
	}

	if err := gob.NewEncoder(w).Encode(state); err != nil {
		return fmt.Errorf("encode model: %w", err)
	}

	return nil
}

// Load reads classifier model data from a gob-encoded reader and replaces
// the trained corpus. Malformed states are rejected before any state
// changes.
func (c *Classifier) Load(r io.Reader) error {
	if r == nil {
		return errNilReader
	}

	var state modelState
	if err := gob.NewDecoder(r).Decode(&state); err != nil {
		return fmt.Errorf("decode model: %w", err)
	}

	if state.Version != persistedModelVersion {
		return fmt.Errorf("%w: %d", errUnsupportedVersion, state.Version)
	}

	return c.RestoreStates(state.Categories)
}

// SaveToFile writes classifier model data to a file atomically.
func (c *Classifier) SaveToFile(path string) error {
	path = resolveModelPath(path)
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", errPathNotAbsolute, path)
	}

	dir := filepath.Dir(path)
	tempFile, err := createTemp(dir, ".simplebayes-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()
	defer removeFile(tempPath)

	if err := c.Save(tempFile); err != nil {
		tempFile.Close()
		return err
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := renameFile(tempPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// LoadFromFile reads classifier model data from a gob-encoded file.
func (c *Classifier) LoadFromFile(path string) error {
	path = resolveModelPath(path)
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%w: %q", errPathNotAbsolute, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open model file: %w", err)
	}
	defer f.Close()

	return c.Load(f)
}

func resolveModelPath(path string) string {
	if path == "" {
		return defaultModelFilePath
	}
	return path
}
