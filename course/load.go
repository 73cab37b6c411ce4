package course

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Format of course outline document.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromName guesses document format from file extension. Course outline
// is shared with the site as JSON, so anything not looking like YAML is JSON.
func FormatFromName(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes course outline from data.
func Parse(data []byte, format Format) (*Structure, error) {
	var (
		s   Structure
		err error
	)
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("unsupported course structure format %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode course structure (%s): %w", format, err)
	}
	return &s, nil
}

// Load reads course outline from r, name is only used to select format.
func Load(r io.Reader, name string) (*Structure, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read course structure '%s': %w", name, err)
	}
	return Parse(data, FormatFromName(name))
}

// LoadFile reads course outline from file.
func LoadFile(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read course structure: %w", err)
	}
	return Parse(data, FormatFromName(path))
}
