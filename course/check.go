package course

import (
	"fmt"

	"go.uber.org/multierr"
)

// Check looks for authoring mistakes which would make generated navigation
// lossy or ambiguous. Navigation builder does not call it - it assumes
// outline is correct - all problems found are returned together.
func (s *Structure) Check() (err error) {
	if s == nil || len(s.Levels) == 0 {
		return fmt.Errorf("course structure has no levels")
	}

	seenLevels := make(map[string]int, len(s.Levels))
	for li, l := range s.Levels {
		if l.ID == "" {
			err = multierr.Append(err, fmt.Errorf("levels[%d]: id is empty", li))
		} else if first, exists := seenLevels[l.ID]; exists {
			err = multierr.Append(err, fmt.Errorf("levels[%d]: id %q duplicates levels[%d], only the first one is used", li, l.ID, first))
		} else {
			seenLevels[l.ID] = li
		}
		err = multierr.Append(err, l.check(li))
	}
	return err
}

func (l *Level) check(li int) (err error) {
	if len(l.Modules) == 0 {
		return fmt.Errorf("levels[%d] (%s): no modules", li, l.ID)
	}

	seenSlugs := make(map[string]int, len(l.Modules))
	for mi, m := range l.Modules {
		where := fmt.Sprintf("levels[%d] (%s): modules[%d]", li, l.ID, mi)
		if m.ID == "" {
			err = multierr.Append(err, fmt.Errorf("%s: id is empty", where))
		}
		if m.Title == "" {
			err = multierr.Append(err, fmt.Errorf("%s: title is empty", where))
		}
		if m.Slug == "" {
			err = multierr.Append(err, fmt.Errorf("%s: slug is empty", where))
			continue
		}
		if first, exists := seenSlugs[m.Slug]; exists {
			err = multierr.Append(err, fmt.Errorf("%s: slug %q duplicates modules[%d]", where, m.Slug, first))
			continue
		}
		seenSlugs[m.Slug] = mi
	}
	return err
}
