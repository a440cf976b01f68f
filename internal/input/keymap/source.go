package keymap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indicates a file extension with no decoder.
var ErrUnknownFormat = errors.New("unknown binding file format")

// Source yields a set of binding definitions.
type Source interface {
	// Name identifies the source in reports and binding SourceIDs.
	Name() string

	// Load returns the source's current definitions.
	Load(ctx context.Context) (*Set, error)
}

// StaticSource serves a fixed set from memory.
type StaticSource struct {
	set *Set
}

// NewStaticSource creates a source that always yields a copy of set.
func NewStaticSource(set *Set) *StaticSource {
	return &StaticSource{set: set.Clone()}
}

// Name returns the set's name.
func (s *StaticSource) Name() string {
	return s.set.Name
}

// Load returns a copy of the set.
func (s *StaticSource) Load(ctx context.Context) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.set.Clone(), nil
}

// Format is a binding file encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// fileSet is the on-disk structure shared by all formats.
type fileSet struct {
	Name     string            `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Contexts map[string]string `json:"contexts,omitempty" yaml:"contexts,omitempty" toml:"contexts,omitempty"`
	Schemes  map[string]string `json:"schemes,omitempty" yaml:"schemes,omitempty" toml:"schemes,omitempty"`
	Bindings []Definition      `json:"bindings" yaml:"bindings" toml:"bindings"`
}

// DecodeSet parses a set from data in the given format.
func DecodeSet(data []byte, format Format) (*Set, error) {
	var fs fileSet
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &fs)
	case FormatYAML:
		err = yaml.Unmarshal(data, &fs)
	case FormatJSON:
		err = json.Unmarshal(data, &fs)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s bindings: %w", format, err)
	}

	set := NewSet(fs.Name)
	set.Bindings = fs.Bindings
	for id, parent := range fs.Contexts {
		set.Context(id, parent)
	}
	for id, parent := range fs.Schemes {
		set.Scheme(id, parent)
	}
	return set, nil
}

// EncodeSet renders a set in the given format.
func EncodeSet(set *Set, format Format) ([]byte, error) {
	fs := fileSet{
		Name:     set.Name,
		Contexts: set.Contexts,
		Schemes:  set.Schemes,
		Bindings: set.Bindings,
	}
	switch format {
	case FormatTOML:
		return toml.Marshal(fs)
	case FormatYAML:
		return yaml.Marshal(fs)
	case FormatJSON:
		return json.MarshalIndent(fs, "", "  ")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileSource reads a set from a TOML, YAML or JSON file on every Load.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the file path.
func (f *FileSource) Name() string {
	return f.path
}

// Path returns the file path.
func (f *FileSource) Path() string {
	return f.path
}

// Load reads and decodes the file. A set without a name is named after the file.
func (f *FileSource) Load(ctx context.Context) (*Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(f.path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading binding file: %w", err)
	}

	set, err := DecodeSet(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}
	if set.Name == "" {
		set.Name = f.path
	}
	return set, nil
}

// DirSources returns a FileSource for every binding file in dir, sorted by name.
func DirSources(dir string) ([]*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading binding directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, err := FormatFromPath(e.Name()); err == nil {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)

	sources := make([]*FileSource, len(paths))
	for i, p := range paths {
		sources[i] = NewFileSource(p)
	}
	return sources, nil
}
