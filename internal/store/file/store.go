package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/dock/internal/domain"
)

// Format is the structured-text encoding of a configuration file.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks the encoding from the file extension.
// Anything that is not .yaml/.yml is JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

var errEmptyDocument = errors.New("empty configuration document")

// Loader reads and writes one configuration location.
type Loader struct {
	filePath string
	format   Format
}

// NewLoader creates a loader for filePath.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
		format:   FormatFor(filePath),
	}
}

// Path returns the configuration location.
func (l *Loader) Path() string { return l.filePath }

// Load reads the configuration. The returned configuration is always usable:
// when the file is missing or unparseable it is domain.Default(), and err
// says why, for logging only. Callers must not treat err as fatal.
func (l *Loader) Load() (domain.Configuration, error) {
	cfg, err := l.Read()
	if err != nil {
		return domain.Default(), err
	}
	return cfg, nil
}

// Read is the strict variant of Load: it fails instead of substituting defaults.
func (l *Loader) Read() (domain.Configuration, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err := Unmarshal(data, l.format)
	if err != nil {
		return domain.Configuration{}, fmt.Errorf("failed to parse config file %s: %w", l.filePath, err)
	}
	return cfg, nil
}

// Save replaces the location with cfg, creating the parent directory.
// The document is written to a temporary file next to the target and
// renamed over it, so readers see either the old or the new content.
func (l *Loader) Save(cfg domain.Configuration) error {
	data, err := Marshal(cfg, l.format)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	dir := filepath.Dir(l.filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(l.filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close config file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set config file mode: %w", err)
	}
	if err := os.Rename(tmpName, l.filePath); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// Load reads location, falling back to domain.Default() on any failure.
func Load(location string) domain.Configuration {
	cfg, _ := NewLoader(location).Load()
	return cfg
}

// Save writes cfg to location.
func Save(location string, cfg domain.Configuration) error {
	return NewLoader(location).Save(cfg)
}

// Marshal encodes cfg as indented, multi-line text.
func Marshal(cfg domain.Configuration, format Format) ([]byte, error) {
	cfg = domain.Normalize(cfg)
	var buf bytes.Buffer

	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		// keep shell command lines like "a && b" readable
		enc.SetEscapeHTML(false)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a configuration document. Empty and null documents are
// rejected so that they fall back to defaults.
func Unmarshal(data []byte, format Format) (domain.Configuration, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return domain.Configuration{}, errEmptyDocument
	}

	var cfg domain.Configuration
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.Configuration{}, err
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return domain.Configuration{}, err
		}
	}
	return domain.Normalize(cfg), nil
}
