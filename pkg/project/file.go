package project

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileStore keeps one JSON file per project in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based project store.
// If baseDir is empty, defaults to ~/.config/sliced/projects/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "sliced", "projects")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create project dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) projectPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(_ context.Context, id string) (*Project, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.projectPath(id))
}

func (s *FileStore) read(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(path))
		}
		return nil, fmt.Errorf("read project file: %w", err)
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse project %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

func (s *FileStore) Put(_ context.Context, p *Project) error {
	if err := validID(p.ID); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal project: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.projectPath(p.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write project file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write project file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.projectPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove project file: %w", err)
	}
	return nil
}

func (s *FileStore) List(_ context.Context) ([]*Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read project dir: %w", err)
	}
	var projects []*Project
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		p, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		projects = append(projects, p)
	}
	sortByUpdated(projects)
	return projects, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the project files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func sortByUpdated(projects []*Project) {
	slices.SortFunc(projects, func(a, b *Project) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

var _ Store = (*FileStore)(nil)
