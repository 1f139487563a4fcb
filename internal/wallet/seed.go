package wallet

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// SeedLength is the size of a wallet seed in bytes.
const SeedLength = 32

const redacted = "Seed(redacted)"

// Seed is the secret that deterministically derives wallet keys. The bytes
// are copied into memory that is locked against swapping where the OS
// allows, and every formatting path prints a redaction marker instead of
// the secret.
type Seed struct {
	mu     sync.Mutex
	data   []byte
	locked bool
}

// NewSeed copies b into a new Seed. b must be exactly SeedLength bytes.
func NewSeed(b []byte) (*Seed, error) {
	if len(b) != SeedLength {
		return nil, syncerr.WithDetails(syncerr.ErrInvalidSeed, map[string]string{
			"length": fmt.Sprintf("%d", len(b)),
			"want":   fmt.Sprintf("%d", SeedLength),
		})
	}

	s := &Seed{data: make([]byte, SeedLength)}
	copy(s.data, b)
	s.locked = mlock(s.data)

	runtime.SetFinalizer(s, func(s *Seed) {
		s.Destroy()
	})
	return s, nil
}

// SeedFromHex parses a hex encoded seed, with or without a 0x prefix.
func SeedFromHex(h string) (*Seed, error) {
	h = strings.TrimPrefix(strings.TrimSpace(h), "0x")
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, syncerr.Mark(syncerr.ErrInvalidSeed, err)
	}
	defer ZeroBytes(b)
	return NewSeed(b)
}

// Bytes returns the seed bytes. The slice aliases the seed's memory and is
// nil after Destroy; callers must not retain it.
func (s *Seed) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Equal compares two seeds in constant time.
func (s *Seed) Equal(other *Seed) bool {
	if s == nil || other == nil {
		return s == other
	}
	return subtle.ConstantTimeCompare(s.Bytes(), other.Bytes()) == 1
}

// Fingerprint returns a short, non-secret identifier for the seed, suitable
// for logs and for telling snapshots of different wallets apart.
func (s *Seed) Fingerprint() string {
	sum := blake2b.Sum256(s.Bytes())
	return hex.EncodeToString(sum[:4])
}

// IsLocked reports whether the seed memory is mlocked.
func (s *Seed) IsLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Destroy zeroes and unlocks the seed. Safe to call multiple times.
func (s *Seed) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return
	}

	ZeroBytes(s.data)
	if s.locked {
		munlock(s.data)
		s.locked = false
	}
	s.data = nil

	runtime.SetFinalizer(s, nil)
}

// String implements fmt.Stringer without revealing the seed.
func (s *Seed) String() string { return redacted }

// GoString implements fmt.GoStringer without revealing the seed.
func (s *Seed) GoString() string { return redacted }

// Format covers every fmt verb, including %x and %v.
func (s *Seed) Format(f fmt.State, _ rune) {
	_, _ = f.Write([]byte(redacted))
}

// ZeroBytes overwrites b with zeros.
func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
