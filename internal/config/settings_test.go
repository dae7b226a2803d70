package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestSettingsMissingFile(t *testing.T) {
	s := NewSettingsStore(filepath.Join(t.TempDir(), "none.yaml"))
	f, complete, err := s.Read()
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, wordclock.Flags{}, f)
}

func TestSettingsComplete(t *testing.T) {
	s := NewSettingsStore(writeFile(t, `
wordclock:
  active: true
  display_it_is: false
  display_meridiem: true
`))
	f, complete, err := s.Read()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, wordclock.Flags{Active: true, Meridiem: true}, f)
}

func TestSettingsPartial(t *testing.T) {
	s := NewSettingsStore(writeFile(t, `
wordclock:
  active: true
`))
	f, complete, err := s.Read()
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, wordclock.Flags{Active: true}, f)
}

func TestSettingsMissingSection(t *testing.T) {
	s := NewSettingsStore(writeFile(t, "other:\n  x: 1\n"))
	_, complete, err := s.Read()
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestSettingsMalformed(t *testing.T) {
	s := NewSettingsStore(writeFile(t, "wordclock: [\n"))
	_, complete, err := s.Read()
	assert.Error(t, err)
	assert.False(t, complete)
}

func TestSettingsEnsureFillsDefaults(t *testing.T) {
	path := writeFile(t, "other:\n  keep: yes\nwordclock:\n  display_it_is: true\n")
	s := NewSettingsStore(path)

	f, complete, err := s.Ensure()
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, wordclock.Flags{ItIs: true}, f)

	f, complete, err = s.Read()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, wordclock.Flags{ItIs: true}, f)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "keep")
}

func TestSettingsUpdate(t *testing.T) {
	s := NewSettingsStore(filepath.Join(t.TempDir(), "settings.yaml"))
	f, err := s.Update(func(f *wordclock.Flags) { f.Active = true })
	require.NoError(t, err)
	assert.Equal(t, wordclock.Flags{Active: true}, f)

	f, err = s.Update(func(f *wordclock.Flags) { f.Meridiem = !f.Meridiem })
	require.NoError(t, err)
	assert.Equal(t, wordclock.Flags{Active: true, Meridiem: true}, f)

	got, complete, err := s.Read()
	require.NoError(t, err)
	assert.True(t, complete)
	assert.Equal(t, f, got)
}
