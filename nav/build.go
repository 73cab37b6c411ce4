// Package nav builds navigation labels for site pages out of course outline.
package nav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"navgen/course"
)

// ErrMissingLevel is matched by errors returned when course outline does
// not have requested level. This is always an authoring error - there is
// nothing sensible to generate and no partial result is returned.
var ErrMissingLevel = errors.New("level not found in course structure")

// MissingLevelError carries details for ErrMissingLevel.
type MissingLevelError struct {
	LevelID string
	Known   []string
}

func (e *MissingLevelError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("level %q not found in course structure (no levels defined)", e.LevelID)
	}
	return fmt.Sprintf("level %q not found in course structure (available: %s)", e.LevelID, strings.Join(e.Known, ", "))
}

func (e *MissingLevelError) Unwrap() error {
	return ErrMissingLevel
}

// LabelValues holds everything label could be made of.
type LabelValues struct {
	Level string
	// Index is 1-based position of the module in its level.
	Index int
	ID    string
	Slug  string
	Title string
}

// Labeler produces navigation label for a single module.
type Labeler func(v LabelValues) (string, error)

// DefaultLabel formats label as "<id>: <title>".
func DefaultLabel(v LabelValues) (string, error) {
	return v.ID + ": " + v.Title, nil
}

// Builder projects modules of a single level into Labels. Zero value is
// ready to use and produces default labels keyed by slugs as they are.
type Builder struct {
	Labeler Labeler
	// Transliterate passes slugs through slug.Make before using them as keys.
	Transliterate bool
}

// Build locates first level with levelID and maps each of its modules slug
// to label, keeping module order.
func (b Builder) Build(s *course.Structure, levelID string) (*Labels, error) {
	level, ok := s.FindLevel(levelID)
	if !ok {
		return nil, &MissingLevelError{LevelID: levelID, Known: s.LevelIDs()}
	}

	labeler := b.Labeler
	if labeler == nil {
		labeler = DefaultLabel
	}

	labels := NewLabels(len(level.Modules))
	for i, m := range level.Modules {
		key := m.Slug
		if b.Transliterate {
			key = slug.Make(key)
		}
		label, err := labeler(LabelValues{
			Level: level.ID,
			Index: i + 1,
			ID:    m.ID.String(),
			Slug:  key,
			Title: m.Title,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to prepare label for module %q (%s): %w", m.ID, m.Slug, err)
		}
		labels.Set(key, label)
	}
	return labels, nil
}

// Build is Builder with defaults.
func Build(s *course.Structure, levelID string) (*Labels, error) {
	return Builder{}.Build(s, levelID)
}
