// Package snapshot persists serialized wallet sessions in named slots on
// disk. The store never interprets blob contents.
package snapshot

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/mrz1836/walletsync/internal/fileutil"
	"github.com/mrz1836/walletsync/internal/seal"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

const (
	// filePermissions is the permission mode for snapshot files.
	filePermissions = 0o600

	// dirPermissions is the permission mode for the snapshot directory.
	dirPermissions = 0o700

	// tmpMarker appears in the names of in-flight atomic writes.
	tmpMarker = ".tmp-"
)

// ErrAbsent is returned by Load when the slot holds no snapshot.
var ErrAbsent = &syncerr.SyncError{
	Code:     syncerr.ErrNotFound.Code,
	Message:  "no snapshot in slot",
	ExitCode: syncerr.ExitNotFound,
}

var slotRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

// Info describes a stored snapshot without exposing its contents.
type Info struct {
	Slot        string    `json:"slot"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	ModTime     time.Time `json:"mod_time"`
	Sealed      bool      `json:"sealed"`
	Fingerprint string    `json:"fingerprint"`
}

// Store reads and writes snapshot blobs under a base directory, one file per
// slot. When a password is configured, blobs are sealed on Save and opened
// on Load; plain blobs written before sealing was enabled still load.
type Store struct {
	dir      string
	password string
}

// Option configures a Store.
type Option func(*Store)

// WithPassword seals saved blobs with password.
func WithPassword(password string) Option {
	return func(s *Store) {
		s.password = password
	}
}

// NewStore creates a store rooted at dir. The directory is created lazily on
// the first Save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the base directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for slot.
func (s *Store) Path(slot string) (string, error) {
	if err := ValidateSlot(slot); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, slot), nil
}

// Load returns the blob stored in slot. A missing file yields ErrAbsent;
// any other read failure is ErrIOFailure.
func (s *Store) Load(slot string) ([]byte, error) {
	path, err := s.Path(slot)
	if err != nil {
		return nil, err
	}

	data, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, ioFailure(err, slot, path, "reading snapshot")
	}
	if !ok {
		return nil, syncerr.WithDetails(ErrAbsent, map[string]string{"slot": slot})
	}

	if !seal.IsSealed(data) {
		return data, nil
	}
	if s.password == "" {
		return nil, syncerr.WithSuggestion(
			syncerr.WithDetails(syncerr.ErrDecryptionFailed, map[string]string{"slot": slot}),
			"snapshot is sealed; set WALLETSYNC_SNAPSHOT_PASSWORD",
		)
	}

	plain, err := seal.Open(data, s.password)
	if err != nil {
		return nil, syncerr.Mark(syncerr.ErrDecryptionFailed, err)
	}
	return plain, nil
}

// Save writes blob to slot atomically, creating the directory if needed.
// A failed write leaves any previous snapshot in place.
func (s *Store) Save(slot string, blob []byte) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}

	data := blob
	if s.password != "" {
		if data, err = seal.Seal(blob, s.password); err != nil {
			return ioFailure(err, slot, path, "sealing snapshot")
		}
	}

	if err := fileutil.WriteAtomic(path, data, filePermissions, dirPermissions); err != nil {
		return ioFailure(err, slot, path, "writing snapshot")
	}
	return nil
}

// Delete removes the snapshot in slot. Deleting an empty slot is not an error.
func (s *Store) Delete(slot string) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return ioFailure(err, slot, path, "removing snapshot")
	}
	return nil
}

// Stat describes the snapshot in slot.
func (s *Store) Stat(slot string) (*Info, error) {
	path, err := s.Path(slot)
	if err != nil {
		return nil, err
	}

	data, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, ioFailure(err, slot, path, "reading snapshot")
	}
	if !ok {
		return nil, syncerr.WithDetails(ErrAbsent, map[string]string{"slot": slot})
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, ioFailure(err, slot, path, "stat snapshot")
	}

	sum := blake2b.Sum256(data)
	return &Info{
		Slot:        slot,
		Path:        path,
		Size:        fi.Size(),
		ModTime:     fi.ModTime().UTC(),
		Sealed:      seal.IsSealed(data),
		Fingerprint: hex.EncodeToString(sum[:8]),
	}, nil
}

// List returns the slots present in the store, sorted by name. A missing
// directory is an empty store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, ioFailure(err, "", s.dir, "listing snapshots")
	}

	var slots []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.Contains(name, tmpMarker) || ValidateSlot(name) != nil {
			continue
		}
		slots = append(slots, name)
	}
	sort.Strings(slots)
	return slots, nil
}

// ValidateSlot checks that slot is a plain file name.
func ValidateSlot(slot string) error {
	if slot == "." || slot == ".." || !slotRegex.MatchString(slot) {
		return syncerr.WithDetails(syncerr.ErrInvalidSlot, map[string]string{"slot": slot})
	}
	return nil
}

func ioFailure(err error, slot, path, op string) error {
	details := map[string]string{"path": path}
	if slot != "" {
		details["slot"] = slot
	}
	return syncerr.WithDetails(syncerr.Mark(syncerr.ErrIOFailure, fmt.Errorf("%s: %w", op, err)), details)
}
