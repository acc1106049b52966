package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubPlatform(t *testing.T, home, userConfig string, err error) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.homeDir = func() (string, error) { return home, err }
	platformDir.userConfigDir = func() (string, error) { return userConfig, err }
}

func TestDefaultConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		stubPlatform(t, "/home/sam", "/Users/sam/Library/Application Support", nil)
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/Users/sam/Library/Application Support", AppName), got)
		return
	}

	t.Run("XDG_CONFIG_HOME wins", func(t *testing.T) {
		stubPlatform(t, "/home/sam", "", nil)
		t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/xdg/config/samwise", got)
	})

	t.Run("home fallback", func(t *testing.T) {
		stubPlatform(t, "/home/sam", "", nil)
		t.Setenv("XDG_CONFIG_HOME", "")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/sam/.config/samwise", got)
	})

	t.Run("home error", func(t *testing.T) {
		stubPlatform(t, "", "", errors.New("no home"))
		t.Setenv("XDG_CONFIG_HOME", "")
		_, err := DefaultConfigDir()
		assert.Error(t, err)
	})
}

func TestDefaultDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG layout applies to linux only")
	}

	t.Run("XDG_DATA_HOME wins", func(t *testing.T) {
		stubPlatform(t, "/home/sam", "", nil)
		t.Setenv("XDG_DATA_HOME", "/xdg/data")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/xdg/data/samwise", got)
	})

	t.Run("home fallback", func(t *testing.T) {
		stubPlatform(t, "/home/sam", "", nil)
		t.Setenv("XDG_DATA_HOME", "")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/home/sam/.local/share/samwise", got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	tmp := t.TempDir()

	t.Run("flag beats env", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/from/env")
		got, err := ResolveConfigDir(tmp)
		require.NoError(t, err)
		assert.Equal(t, tmp, got)
	})

	t.Run("env beats default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, tmp)
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, tmp, got)
	})

	t.Run("default when unset", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		want, err := DefaultConfigDir()
		require.NoError(t, err)
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("relative flag becomes absolute", func(t *testing.T) {
		got, err := ResolveConfigDir("relative/dir")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got), "expected absolute path, got %s", got)
	})
}

func TestResolveDataDir(t *testing.T) {
	tmp := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name   string
		flag   string
		config string
		env    string
		want   string
	}{
		{name: "flag first", flag: tmp, config: "/cfg", env: "/env", want: tmp},
		{name: "config before env", config: tmp, env: "/env", want: tmp},
		{name: "env last", env: tmp, want: tmp},
		{name: "relative config", config: "rel", want: filepath.Join(cwd, "rel")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.env)
			got, err := ResolveDataDir(tt.flag, tt.config)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("platform default when unset", func(t *testing.T) {
		t.Setenv(EnvDataDir, "")
		want, err := DefaultDataDir()
		require.NoError(t, err)
		got, err := ResolveDataDir("", "")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}
