package nav

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	yaml "gopkg.in/yaml.v3"
)

// Entry is a single navigation item.
type Entry struct {
	Slug  string
	Label string
}

// Labels maps page slugs to navigation labels and remembers insertion order,
// which is the order navigation renderer shows entries in. Setting existing
// slug replaces its label but keeps original position.
type Labels struct {
	keys   []string
	values map[string]string
}

// NewLabels returns empty Labels with room for n entries.
func NewLabels(n int) *Labels {
	return &Labels{
		keys:   make([]string, 0, n),
		values: make(map[string]string, n),
	}
}

func (l *Labels) Set(slug, label string) {
	if l.values == nil {
		l.values = make(map[string]string)
	}
	if _, exists := l.values[slug]; !exists {
		l.keys = append(l.keys, slug)
	}
	l.values[slug] = label
}

func (l *Labels) Get(slug string) (string, bool) {
	if l == nil {
		return "", false
	}
	label, ok := l.values[slug]
	return label, ok
}

func (l *Labels) Len() int {
	if l == nil {
		return 0
	}
	return len(l.keys)
}

// Keys returns slugs in insertion order.
func (l *Labels) Keys() []string {
	if l == nil {
		return nil
	}
	return slices.Clone(l.keys)
}

// All iterates over slugs and labels in insertion order.
func (l *Labels) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if l == nil {
			return
		}
		for _, k := range l.keys {
			if !yield(k, l.values[k]) {
				return
			}
		}
	}
}

// Entries returns navigation items in insertion order.
func (l *Labels) Entries() []Entry {
	entries := make([]Entry, 0, l.Len())
	for slug, label := range l.All() {
		entries = append(entries, Entry{Slug: slug, Label: label})
	}
	return entries
}

// Equal reports whether both have the same entries in the same order.
func (l *Labels) Equal(other *Labels) bool {
	if l.Len() != other.Len() {
		return false
	}
	if l.Len() == 0 {
		return true
	}
	for i, k := range l.keys {
		if other.keys[i] != k || other.values[k] != l.values[k] {
			return false
		}
	}
	return true
}

// MarshalJSON writes object with keys in insertion order.
func (l *Labels) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	i := 0
	for slug, label := range l.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		k, err := json.Marshal(slug)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML produces mapping node with keys in insertion order.
func (l *Labels) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for slug, label := range l.All() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: slug},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: label},
		)
	}
	return node, nil
}
