package solution

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/litescript/ls-platesolver/internal/logging"
)

// MaxEntries caps the number of solutions Refresh lists.
const MaxEntries = 40

const fileExt = ".json"

// Entry is one solution file in a Store.
type Entry struct {
	// ID is dense, starts at 1 and stays stable for the life of the
	// Store.
	ID       int
	Path     string
	ModTime  time.Time
	Solution *Solution

	// Err is set for files that could not be read. Such entries are kept
	// so the file is not re-read until it changes, but never listed.
	Err error
}

// Store is a directory of solution files named by parameter hash. It is
// safe for concurrent use.
type Store struct {
	dir string
	log *logging.Logger

	mu      sync.Mutex
	entries map[string]*Entry // by file name
	nextID  int
}

// NewStore opens dir, creating it if needed.
func NewStore(dir string, log *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		dir:     dir,
		log:     log,
		entries: make(map[string]*Entry),
		nextID:  1,
	}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Path returns where the solution for p is stored.
func (s *Store) Path(p Params) string {
	return filepath.Join(s.dir, p.Hash()+fileExt)
}

// Lookup returns the stored solution for p, if there is a valid one.
func (s *Store) Lookup(p Params) (*Solution, bool) {
	sol, err := Read(s.Path(p))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Debug("cached solution for %s unusable: %v", p.ImagePath, err)
		}
		return nil, false
	}
	return sol, true
}

// Save writes sol under its parameter hash and returns the path.
func (s *Store) Save(sol *Solution) (string, error) {
	path := s.Path(sol.Params)
	if err := Write(path, sol); err != nil {
		return "", err
	}
	s.log.Info("saved solution %s", filepath.Base(path))
	return path, nil
}

// Refresh rescans the directory and returns the readable solutions, newest
// first (ties by file name), at most MaxEntries of them.
func (s *Store) Refresh() ([]Entry, error) {
	des, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(des))
	for _, de := range des {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// removed between ReadDir and Info
			continue
		}
		seen[name] = true

		old, ok := s.entries[name]
		if ok && old.ModTime.Equal(info.ModTime()) {
			continue
		}
		e := &Entry{Path: filepath.Join(s.dir, name), ModTime: info.ModTime()}
		if ok {
			e.ID = old.ID
		} else {
			e.ID = s.nextID
			s.nextID++
		}
		e.Solution, e.Err = Read(e.Path)
		if e.Err != nil {
			s.log.Warn("skipping %s: %v", name, e.Err)
		} else {
			s.log.Debug("loaded %s as #%d", name, e.ID)
		}
		s.entries[name] = e
	}
	for name := range s.entries {
		if !seen[name] {
			delete(s.entries, name)
		}
	}

	list := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if e.Err == nil {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.ModTime.Equal(b.ModTime) {
			return a.ModTime.After(b.ModTime)
		}
		return filepath.Base(a.Path) < filepath.Base(b.Path)
	})
	if len(list) > MaxEntries {
		list = list[:MaxEntries]
	}
	return list, nil
}

// FindByID returns the entry with the given ID as of the last Refresh.
func (s *Store) FindByID(id int) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return *e, true
		}
	}
	return Entry{}, false
}
