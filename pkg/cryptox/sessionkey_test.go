package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/fluffyfriend/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestLoadSessionKeyFromSecret(t *testing.T) {
	a, err := cryptox.LoadSessionKey("", "correct horse")
	require.NoError(t, err)
	require.Len(t, a, cryptox.SessionKeySize)

	b, err := cryptox.LoadSessionKey("ignored", "correct horse")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestLoadSessionKeyGeneratesAndReloads(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keys", "session.key")

	first, err := cryptox.LoadSessionKey(file, "")
	require.NoError(t, err)
	require.Len(t, first, cryptox.SessionKeySize)

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := cryptox.LoadSessionKey(file, "")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadSessionKeyRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := cryptox.LoadSessionKey("", "")
	require.Error(t, err)

	short := filepath.Join(dir, "short.key")
	require.NoError(t, os.WriteFile(short, []byte("c2hvcnQ"), 0600))
	_, err = cryptox.LoadSessionKey(short, "")
	require.ErrorContains(t, err, "need 32")

	garbage := filepath.Join(dir, "garbage.key")
	require.NoError(t, os.WriteFile(garbage, []byte("!!!"), 0600))
	_, err = cryptox.LoadSessionKey(garbage, "")
	require.ErrorContains(t, err, "decode")
}
