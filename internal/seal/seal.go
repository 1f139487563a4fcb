// Package seal encrypts snapshot blobs at rest with age scrypt recipients.
// Sealed blobs are self-identifying, so readers can accept both sealed and
// plain blobs from the same directory.
package seal

import (
	"bytes"
	"fmt"
	"io"
	"sync/atomic"

	"filippo.io/age"
)

// header is the first line of every age file.
const header = "age-encryption.org/v1\n"

// DefaultWorkFactor is age's scrypt cost (log2 N).
const DefaultWorkFactor = 18

//nolint:gochecknoglobals // tunable for tests, mirrors age's own default
var workFactor atomic.Int32

func init() { //nolint:gochecknoinits // initializes the work factor default
	workFactor.Store(DefaultWorkFactor)
}

// SetWorkFactor changes the scrypt cost used by Seal. Tests lower it to keep
// runs fast; production code should leave the default.
func SetWorkFactor(logN int) {
	workFactor.Store(int32(logN)) //nolint:gosec // G115: logN is a small exponent
}

// IsSealed reports whether data carries an age header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(header))
}

// Seal encrypts plaintext under password.
func Seal(plaintext []byte, password string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(int(workFactor.Load()))

	buf := &bytes.Buffer{}
	w, err := age.Encrypt(buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing encrypted data: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return buf.Bytes(), nil
}

// Open decrypts a sealed blob with password.
func Open(ciphertext []byte, password string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(password)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("initializing decryption: %w", err)
	}

	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted data: %w", err)
	}

	return plaintext, nil
}
