package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/cabdesk/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInteractive(t *testing.T) {
	assert.True(t, isInteractive(rootCmd))
	assert.True(t, isInteractive(uiCmd()))
	assert.False(t, isInteractive(cabsCmd()))
	assert.False(t, isInteractive(&cobra.Command{Use: "import"}))
}

func TestLogWriter(t *testing.T) {
	t.Cleanup(viper.Reset)

	w, err := logWriter(false)
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	viper.Set(config.KeyLogFile, "")
	w, err = logWriter(true)
	require.NoError(t, err)
	assert.Equal(t, io.Discard, w)

	path := filepath.Join(t.TempDir(), "cabdesk.log")
	viper.Set(config.KeyLogFile, path)
	w, err = logWriter(true)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = logFile.Close()
		logFile = nil
	})
	_, err = w.Write([]byte("hello\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set(config.KeyLogLevel, "debug")
	viper.Set(config.KeyLogFormat, "json")
	require.NoError(t, setupLogging(io.Discard))

	viper.Set(config.KeyLogLevel, "loud")
	assert.Error(t, setupLogging(io.Discard))

	viper.Set(config.KeyLogLevel, "info")
	viper.Set(config.KeyLogFormat, "xml")
	assert.Error(t, setupLogging(io.Discard))
}

func TestRootCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ui", "cabs", "entry", "report", "import", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
