package seal

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	SetWorkFactor(10) // Fast for tests
	os.Exit(m.Run())
}

func TestSealOpen_RoundTrip(t *testing.T) {
	t.Parallel()

	plain := []byte(`{"offset":10000,"state":"opaque"}`)
	sealed, err := Seal(plain, "correct horse")
	require.NoError(t, err)

	assert.True(t, IsSealed(sealed))
	assert.NotContains(t, string(sealed), "opaque")

	opened, err := Open(sealed, "correct horse")
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestOpen_WrongPassword(t *testing.T) {
	t.Parallel()

	sealed, err := Seal([]byte("blob"), "right")
	require.NoError(t, err)

	_, err = Open(sealed, "wrong")
	require.Error(t, err)
}

func TestOpen_Garbage(t *testing.T) {
	t.Parallel()

	_, err := Open([]byte("not an age file"), "pw")
	require.Error(t, err)
}

func TestIsSealed(t *testing.T) {
	t.Parallel()

	assert.False(t, IsSealed([]byte(`{"offset":1}`)))
	assert.False(t, IsSealed(nil))
	assert.True(t, IsSealed([]byte("age-encryption.org/v1\n-> scrypt")))
}
