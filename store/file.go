package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// File persists the record as a JSON file under a directory, one file per
// storage key. All storage faults are swallowed: Load answers nil for a
// missing or unreadable file, Save and Clear no-op when the medium rejects
// the write (read-only disk, quota, missing home directory).
type File struct {
	dir string
	key string
}

// NewFile creates a file-backed store rooted at dir for the given
// principal class.
func NewFile(dir string, audience Audience) *File {
	return &File{dir: dir, key: KeyForAudience(audience)}
}

func (f *File) path() string {
	return filepath.Join(f.dir, f.key+".json")
}

// Load reads the persisted record. Missing, unparsable, or unreadable
// files all read back as an absent record.
func (f *File) Load() (*Record, error) {
	data, err := os.ReadFile(f.path())
	if err != nil {
		return nil, nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, nil
	}
	return normalize(&record), nil
}

// Save writes the record via a temp file and rename so a reader never
// observes a partial write.
func (f *File) Save(record *Record) error {
	record = normalize(record)
	if record == nil {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return nil
	}

	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return nil
	}

	tmp := f.path() + "." + uuid.New().String() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil
	}
	if err := os.Rename(tmp, f.path()); err != nil {
		_ = os.Remove(tmp)
	}
	return nil
}

// Clear removes the record. Idempotent.
func (f *File) Clear() error {
	_ = os.Remove(f.path())
	return nil
}
