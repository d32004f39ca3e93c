package configfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWithExplicitPath(t *testing.T) {
	viper.Reset()

	path := filepath.Join(t.TempDir(), "batchmeter.yml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \"127.0.0.1:9099\"\n"), 0o600))

	file, err := NewFile(Params{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9099", file.GetServer().GetAddress())
}

func TestNewFileMissingExplicitPathFails(t *testing.T) {
	viper.Reset()

	_, err := NewFile(Params{ConfigPath: filepath.Join(t.TempDir(), "nope.yml")})

	assert.Error(t, err)
}
