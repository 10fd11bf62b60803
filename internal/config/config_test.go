package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
	assert.Equal(t, DefaultHistoryLimit, s.HistoryLimit)
	assert.False(t, s.Persist)
	assert.False(t, s.Fuzzy)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Settings{HistoryLimit: 42, Persist: true, Fuzzy: true}

	require.NoError(t, Save(dir, want))

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadClampsInvalidLimit(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, settingsFileName),
		[]byte(`{"history_limit": 0, "persistent": true}`), 0644)
	require.NoError(t, err)

	s, loadErr := Load(dir)
	require.NoError(t, loadErr)
	assert.Equal(t, DefaultHistoryLimit, s.HistoryLimit)
	assert.True(t, s.Persist)
}

func TestLoadCorruptFileReportsError(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte("{oops"), 0644)
	require.NoError(t, err)

	s, loadErr := Load(dir)
	assert.Error(t, loadErr)
	assert.Equal(t, Default(), s)
}

func TestSaveCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist")
	require.NoError(t, Save(dir, Default()))

	s, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}
