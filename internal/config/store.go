// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package config persists the plugin's world registry, force-load list,
// global spawn and feature toggles in a YAML file.
package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

//go:embed default.yaml
var defaultConfig []byte

// DefaultConfig returns the document written when no config file exists.
func DefaultConfig() []byte {
	return append([]byte(nil), defaultConfig...)
}

// Store is a key-path view over the YAML config file. Keys use "." as the
// path delimiter, e.g. "worlds.arena.seed".
type Store struct {
	path string
	k    *koanf.Koanf
}

// Open loads the config file at path, writing the default document first
// if the file does not exist.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
		}
		if err := os.WriteFile(path, defaultConfig, 0o600); err != nil {
			return nil, oops.Code("CONFIG_WRITE_FAILED").With("path", path).Wrap(err)
		}
	} else if err != nil {
		return nil, oops.Code("CONFIG_READ_FAILED").With("path", path).Wrap(err)
	}

	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the config file location.
func (s *Store) Path() string {
	return s.path
}

// Reload discards in-memory changes and re-reads the file.
func (s *Store) Reload() error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
		return oops.Code("CONFIG_PARSE_FAILED").With("path", s.path).Wrap(err)
	}
	s.k = k
	return nil
}

// Exists reports whether key is set.
func (s *Store) Exists(key string) bool {
	return s.k.Exists(key)
}

// String returns the string at key, or "" when unset.
func (s *Store) String(key string) string {
	return s.k.String(key)
}

// Strings returns the string list at key.
func (s *Store) Strings(key string) []string {
	return s.k.Strings(key)
}

// Int returns the integer at key, or 0 when unset.
func (s *Store) Int(key string) int {
	return s.k.Int(key)
}

// Int64 returns the integer at key, or 0 when unset.
func (s *Store) Int64(key string) int64 {
	return s.k.Int64(key)
}

// Bool returns the boolean at key, or false when unset.
func (s *Store) Bool(key string) bool {
	return s.k.Bool(key)
}

// Float64s returns the numeric list at key. ok is false when the value is
// not a list or holds a non-numeric element.
func (s *Store) Float64s(key string) (values []float64, ok bool) {
	var list []any
	switch v := s.k.Get(key).(type) {
	case []float64:
		return append([]float64(nil), v...), true
	case []any:
		list = v
	default:
		return nil, false
	}
	values = make([]float64, 0, len(list))
	for _, v := range list {
		switch n := v.(type) {
		case float64:
			values = append(values, n)
		case float32:
			values = append(values, float64(n))
		case int:
			values = append(values, float64(n))
		case int64:
			values = append(values, float64(n))
		case uint64:
			values = append(values, float64(n))
		default:
			return nil, false
		}
	}
	return values, true
}

// IsList reports whether the value at key is a list.
func (s *Store) IsList(key string) bool {
	switch s.k.Get(key).(type) {
	case []any, []float64, []string:
		return true
	default:
		return false
	}
}

// MapKeys returns the child keys of the map at key.
func (s *Store) MapKeys(key string) []string {
	return s.k.MapKeys(key)
}

// Set replaces the value at key.
func (s *Store) Set(key string, value any) error {
	if err := s.k.Set(key, value); err != nil {
		return oops.Code("CONFIG_SET_FAILED").With("key", key).Wrap(err)
	}
	return nil
}

// Delete removes key and everything below it.
func (s *Store) Delete(key string) {
	s.k.Delete(key)
}

// Raw returns a nested copy of the whole document.
func (s *Store) Raw() map[string]any {
	return s.k.Raw()
}

// Save writes the document back to disk. The file is replaced atomically
// so a crash never leaves a truncated config behind.
func (s *Store) Save() error {
	data, err := s.k.Marshal(yaml.Parser())
	if err != nil {
		return oops.Code("CONFIG_ENCODE_FAILED").With("path", s.path).Wrap(err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return oops.Code("CONFIG_WRITE_FAILED").With("path", s.path).Wrap(err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return oops.Code("CONFIG_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return oops.Code("CONFIG_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return oops.Code("CONFIG_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		cleanup()
		return oops.Code("CONFIG_WRITE_FAILED").With("path", s.path).Wrap(err)
	}
	return nil
}
