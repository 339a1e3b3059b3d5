package journal

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// Store is the journal: an ordered list of entries mirrored in a single JSONL file.
//
// Entries are kept in the order they were added, deleted ones included. Every
// mutation rewrites the whole file before returning. A Store is not safe for
// concurrent use and must be the only writer of its file.
type Store struct {
	path    string
	entries []Entry
	nextID  int
	// diverged is set once a save failed: memory no longer matches the file.
	diverged *PersistError
}

// Open loads the journal stored in path.
//
// A missing file is an empty journal. Lines that cannot be decoded are
// dropped. Any other failure to read the file is returned.
func Open(path string) (*Store, error) {
	s := &Store{path: path, nextID: 1}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load replays the backing file into memory.
func (s *Store) load() error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("journal %q does not exist yet, starting empty", s.path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not open journal file %q: %w", s.path, err)
	}
	defer f.Close()

	entries, skipped, err := DecodeEntries(f)
	if err != nil {
		return fmt.Errorf("could not read journal file %q: %w", s.path, err)
	}
	if skipped > 0 {
		log.Printf("journal %q: ignored %d undecodable line(s)", s.path, skipped)
	}
	for _, e := range entries {
		if e.ID >= s.nextID {
			s.nextID = e.ID + 1
		}
	}
	s.entries = entries
	return nil
}

// Save rewrites the backing file from memory.
//
// Mutations already save, calling it directly is only useful to normalize a file.
// On failure the store is marked as diverged and the error is a *PersistError.
func (s *Store) Save() error {
	if s.diverged != nil {
		return s.diverged
	}
	if err := s.write(); err != nil {
		s.diverged = &PersistError{Path: s.path, Err: err}
		return s.diverged
	}
	return nil
}

// write truncates the backing file and writes every entry, one per line.
func (s *Store) write() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for journal: %w", err)
		}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := EncodeEntries(w, s.entries); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log.Printf("journal %q: wrote %d entries", s.path, len(s.entries))
	return nil
}

// find returns the index of the live entry with this id, or -1.
func (s *Store) find(id int) int {
	for i, e := range s.entries {
		if e.ID == id && !e.IsDeleted() {
			return i
		}
	}
	return -1
}

// Add appends a new entry to the journal and returns it as stored.
//
// Any ID, Total or Status set on candidate is ignored. It returns ErrInvalidEntry
// if candidate has no valid date, and ErrIDsExhausted once MaxID has been used.
func (s *Store) Add(candidate Entry) (Entry, error) {
	if s.diverged != nil {
		return Entry{}, s.diverged
	}
	if err := candidate.validate(); err != nil {
		return Entry{}, fmt.Errorf("cannot add entry: %w", err)
	}
	if int64(s.nextID) > MaxID {
		return Entry{}, fmt.Errorf("cannot add entry: %w", ErrIDsExhausted)
	}
	e := candidate
	e.ID = s.nextID
	s.nextID++
	e.Status = Live
	e.Total = e.Balance()
	s.entries = append(s.entries, e)
	if err := s.Save(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns the live entries in insertion order.
func (s *Store) List() []Entry {
	live := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if !e.IsDeleted() {
			live = append(live, e)
		}
	}
	return live
}

// Get returns the live entry with this id.
func (s *Store) Get(id int) (Entry, bool) {
	i := s.find(id)
	if i < 0 {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Update replaces every field of the live entry id with replacement's.
//
// The ID is kept, the total is recomputed and the entry stays live. It returns
// ErrNotFound if id is unknown or deleted, and ErrInvalidEntry if replacement
// has no valid date.
func (s *Store) Update(id int, replacement Entry) (Entry, error) {
	if s.diverged != nil {
		return Entry{}, s.diverged
	}
	i := s.find(id)
	if i < 0 {
		return Entry{}, fmt.Errorf("cannot update entry %d: %w", id, ErrNotFound)
	}
	if err := replacement.validate(); err != nil {
		return Entry{}, fmt.Errorf("cannot update entry %d: %w", id, err)
	}
	e := replacement
	e.ID = id
	e.Total = e.Balance()
	e.Status = Live
	s.entries[i] = e
	if err := s.Save(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Delete marks the live entry id as deleted. It returns ErrNotFound if id is
// unknown or already deleted.
func (s *Store) Delete(id int) error {
	if s.diverged != nil {
		return s.diverged
	}
	i := s.find(id)
	if i < 0 {
		return fmt.Errorf("cannot delete entry %d: %w", id, ErrNotFound)
	}
	s.entries[i].Status = Deleted
	return s.Save()
}

// NextID returns the ID the next added entry will get.
func (s *Store) NextID() int { return s.nextID }

// Len returns the number of stored entries, deleted ones included.
func (s *Store) Len() int { return len(s.entries) }

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }
