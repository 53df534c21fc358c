package gpio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeRpio(t *testing.T, openErr error) (opens, closes *int) {
	t.Helper()
	opens, closes = new(int), new(int)
	rpioOpen = func() error {
		*opens++
		return openErr
	}
	rpioClose = func() error {
		*closes++
		return nil
	}
	t.Cleanup(func() {
		users = 0
	})
	return opens, closes
}

func TestOpenCloseRefCount(t *testing.T) {
	opens, closes := fakeRpio(t, nil)

	require.NoError(t, Open())
	require.NoError(t, Open())
	require.NoError(t, Open())
	assert.Equal(t, 1, *opens)

	require.NoError(t, Close())
	require.NoError(t, Close())
	assert.Zero(t, *closes)

	require.NoError(t, Close())
	assert.Equal(t, 1, *closes)

	assert.ErrorIs(t, Close(), ErrNotOpen)
}

func TestOpenFailureIsNotCounted(t *testing.T) {
	fakeRpio(t, errors.New("no /dev/gpiomem"))

	require.Error(t, Open())
	assert.ErrorIs(t, Close(), ErrNotOpen)
}
