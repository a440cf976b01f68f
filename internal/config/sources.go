package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/input/keymap"
	"github.com/dshills/keyresolve/internal/plugin/lua"
)

// luaExt marks script sources.
const luaExt = ".lua"

// BuildRegistry creates a registry holding every configured source and,
// when enabled, the built-in bindings below them all.
func (c *Config) BuildRegistry(logger zerolog.Logger) (*keymap.Registry, error) {
	reg := keymap.NewRegistry(keymap.WithLogger(logger))

	lowest := -1
	for _, s := range c.Sources {
		sources, err := expandSource(s.Path, logger)
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			if err := reg.Add(s.Rank, src); err != nil {
				return nil, err
			}
		}
		lowest = max(lowest, s.Rank)
	}

	if c.Builtin {
		if err := reg.Add(lowest+1, keymap.Builtin()); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// expandSource turns a configured path into sources. A directory yields
// one source per binding file and script, sorted by name.
func expandSource(path string, logger zerolog.Logger) ([]keymap.Source, error) {
	info, err := os.Stat(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}

	// A missing file still registers; it fails on Load until created.
	if err != nil || !info.IsDir() {
		return []keymap.Source{fileSource(path, logger)}, nil
	}

	files, err := keymap.DirSources(path)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path())
	}
	scripts, err := filepath.Glob(filepath.Join(path, "*"+luaExt))
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", path, err)
	}
	paths = append(paths, scripts...)
	slices.Sort(paths)

	sources := make([]keymap.Source, len(paths))
	for i, p := range paths {
		sources[i] = fileSource(p, logger)
	}
	return sources, nil
}

func fileSource(path string, logger zerolog.Logger) keymap.Source {
	if strings.EqualFold(filepath.Ext(path), luaExt) {
		return lua.NewSource(path, lua.WithSourceLogger(logger))
	}
	return keymap.NewFileSource(path)
}

// WatchPaths returns the files and directories whose changes should
// trigger a reload: the config file itself is not included.
func (c *Config) WatchPaths() (files, dirs []string) {
	for _, s := range c.Sources {
		info, err := os.Stat(s.Path)
		switch {
		case err != nil:
			// Watch the file so it is picked up once created.
			files = append(files, s.Path)
		case info.IsDir():
			dirs = append(dirs, s.Path)
		default:
			files = append(files, s.Path)
		}
	}
	return files, dirs
}
