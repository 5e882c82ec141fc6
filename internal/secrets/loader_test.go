package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPrefersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key")
	require.NoError(t, os.WriteFile(path, []byte("  from-file\n"), 0o600))
	t.Setenv("MIRA_TEST_KEY", "from-env")

	secret, err := Load(Source{Name: "openai api key", Value: "inline", File: path, Env: "MIRA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "from-file", secret)
}

func TestLoadFallsBackToValueThenEnv(t *testing.T) {
	t.Setenv("MIRA_TEST_KEY", " from-env ")

	secret, err := Load(Source{Value: " inline ", Env: "MIRA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "inline", secret)

	secret, err = Load(Source{Env: "MIRA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("MIRA_TEST_KEY", "")

	_, err := Load(Source{Name: "gemini api key", Env: "MIRA_TEST_KEY"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini api key is not configured (set MIRA_TEST_KEY)")

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = Load(Source{File: empty, Value: "ignored"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")

	_, err = Load(Source{File: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)

	_, err = Load(Source{})
	require.EqualError(t, err, "secret is not configured")
}
