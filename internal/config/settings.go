package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-horloge/internal/wordclock"
)

const settingsSection = "wordclock"

type flagsDoc struct {
	Active   *bool `yaml:"active"`
	ItIs     *bool `yaml:"display_it_is"`
	Meridiem *bool `yaml:"display_meridiem"`
}

// SettingsStore persists the three clock flags in a YAML file, next to
// any other sections the file may hold.
type SettingsStore struct {
	Path string
	mu   sync.Mutex
}

func NewSettingsStore(path string) *SettingsStore {
	return &SettingsStore{Path: path}
}

// Read returns the stored flags. complete is false when the file, the
// section or any of the three keys is missing; missing flags read as false
// so the caller can write the defaults back.
func (s *SettingsStore) Read() (f wordclock.Flags, complete bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *SettingsStore) read() (wordclock.Flags, bool, error) {
	var f wordclock.Flags
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return f, false, nil
	}
	if err != nil {
		return f, false, err
	}
	var doc struct {
		WordClock *flagsDoc `yaml:"wordclock"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return f, false, fmt.Errorf("parse settings %s: %w", s.Path, err)
	}
	if doc.WordClock == nil {
		return f, false, nil
	}
	complete := true
	get := func(p *bool, dst *bool) {
		if p == nil {
			complete = false
			return
		}
		*dst = *p
	}
	get(doc.WordClock.Active, &f.Active)
	get(doc.WordClock.ItIs, &f.ItIs)
	get(doc.WordClock.Meridiem, &f.Meridiem)
	return f, complete, nil
}

// Write stores all three flags, keeping unrelated sections of the file.
func (s *SettingsStore) Write(f wordclock.Flags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(f)
}

func (s *SettingsStore) write(f wordclock.Flags) error {
	doc := map[string]any{}
	b, err := os.ReadFile(s.Path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("parse settings %s: %w", s.Path, err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	doc[settingsSection] = flagsDoc{Active: &f.Active, ItIs: &f.ItIs, Meridiem: &f.Meridiem}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, out, 0644)
}

// Update applies fn to the stored flags and writes the result back.
func (s *SettingsStore) Update(fn func(*wordclock.Flags)) (wordclock.Flags, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, _, err := s.read()
	if err != nil {
		return f, err
	}
	fn(&f)
	return f, s.write(f)
}

// Ensure reads the flags and, if incomplete, writes them back with the
// missing fields filled with false.
func (s *SettingsStore) Ensure() (wordclock.Flags, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, complete, err := s.read()
	if err != nil || complete {
		return f, complete, err
	}
	return f, false, s.write(f)
}
