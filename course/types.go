// Package course describes shared course outline - levels and modules in them -
// and knows how to read it from JSON or YAML documents.
package course

import (
	"bytes"
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

type (
	// Structure is the root of course outline document. Only fields needed
	// for navigation are decoded, everything else is ignored.
	Structure struct {
		Levels []Level `json:"levels" yaml:"levels"`
	}

	// Level is a top level grouping of modules (difficulty tier, part etc).
	Level struct {
		ID      string   `json:"id" yaml:"id"`
		Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
		Modules []Module `json:"modules" yaml:"modules"`
	}

	// Module is a single course unit within level.
	Module struct {
		ID    ModuleID `json:"id" yaml:"id"`
		Slug  string   `json:"slug" yaml:"slug"`
		Title string   `json:"title" yaml:"title"`
	}
)

// ModuleID may be written as a string or as a number in the source document.
// Numbers are kept as they were written, so "1.10" does not become "1.1".
type ModuleID string

func (id ModuleID) String() string {
	return string(id)
}

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ModuleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ModuleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("module id must be string or number, got %s", data)
	}
	*id = ModuleID(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (id *ModuleID) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: module id must be scalar", node.Line)
	}
	if node.ShortTag() == "!!null" {
		*id = ""
		return nil
	}
	*id = ModuleID(node.Value)
	return nil
}
