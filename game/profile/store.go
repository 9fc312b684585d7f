package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrProfileNotFound is returned when no profile exists for an ID
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfileID is returned for IDs that cannot name a file
	ErrInvalidProfileID = errors.New("invalid profile id")
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Store persists profiles
type Store interface {
	// Load returns the profile or ErrProfileNotFound
	Load(id string) (*Profile, error)
	// Save creates or replaces a profile
	Save(p *Profile) error
	// List returns every stored profile
	List() ([]*Profile, error)
	// Delete removes a profile
	Delete(id string) error
}

// FileStore keeps each profile in <dir>/<id>.json
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates the directory if needed
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profiles directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Load reads a profile from disk
func (s *FileStore) Load(id string) (*Profile, error) {
	if !validID.MatchString(id) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProfileID, id)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.path(id))
}

// Save writes a profile to disk
func (s *FileStore) Save(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if !validID.MatchString(p.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidProfileID, p.ID)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.path(p.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write profile file: %w", err)
	}
	return nil
}

// List reads every profile in the directory, sorted by ID
func (s *FileStore) List() ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles directory: %w", err)
	}

	var profiles []*Profile
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		p, err := s.read(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles, nil
}

// Delete removes a profile file
func (s *FileStore) Delete(id string) error {
	if !validID.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidProfileID, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("failed to remove profile file: %w", err)
	}
	return nil
}

func (s *FileStore) read(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", filepath.Base(path), err)
	}
	return &p, nil
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// MemoryStore keeps profiles in memory. Profiles are copied on the way in and out.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]Profile)}
}

// Load returns a copy of the stored profile
func (s *MemoryStore) Load(id string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.copy(), nil
}

// Save stores a copy of the profile
func (s *MemoryStore) Save(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = *p.copy()
	return nil
}

// List returns copies of every profile, sorted by ID
func (s *MemoryStore) List() ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.copy())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Delete removes a profile
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[id]; !ok {
		return ErrProfileNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (p *Profile) copy() *Profile {
	c := *p
	c.Achievements = append(c.Achievements[:0:0], p.Achievements...)
	c.RecentGames = append(c.RecentGames[:0:0], p.RecentGames...)
	return &c
}
