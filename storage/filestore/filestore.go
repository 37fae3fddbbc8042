// Package filestore persists key/value pairs in a YAML document on disk.
// It is the default durable store for the command line client, where each
// invocation is a fresh process and the file plays the role of origin
// storage that survives reloads.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jrsteele09/go-viewer-session/storage"
)

const fileVersion = 1

// document is the on-disk layout.
type document struct {
	Version int               `yaml:"version"`
	SavedAt time.Time         `yaml:"savedAt"`
	Values  map[string]string `yaml:"values"`
}

var _ storage.Store = (*Store)(nil)

// Store reads the file on every Get so that writes from other processes
// sharing the file are observed.
type Store struct {
	path string
	lock sync.Mutex
}

// Open returns a store backed by path, creating parent directories.
// The file itself is created on first write.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("[filestore.Open] path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("[filestore.Open] create directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}
	v, ok := doc.Values[key]
	if !ok {
		return "", storage.ErrNotFound
	}
	return v, nil
}

func (s *Store) Apply(ctx context.Context, mutations ...storage.Mutation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	for _, m := range mutations {
		if m.Delete {
			delete(doc.Values, m.Key)
			continue
		}
		doc.Values[m.Key] = m.Value
	}
	return s.write(doc)
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read() (*document, error) {
	doc := &document{Version: fileVersion, Values: map[string]string{}}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if doc.Values == nil {
		doc.Values = map[string]string{}
	}
	return doc, nil
}

// write replaces the file atomically so readers never see a torn document.
func (s *Store) write(doc *document) error {
	doc.Version = fileVersion
	doc.SavedAt = time.Now().UTC()
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".store-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
