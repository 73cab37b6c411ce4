package course

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

type treeWriter struct {
	strings.Builder
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	tw.WriteString(strings.Repeat("  ", depth))
	fmt.Fprintf(tw, format, args...)
	tw.WriteByte('\n')
}

// String returns readable tree of the whole outline followed by slug index.
// It exists solely for debug reports and manual inspection.
func (s *Structure) String() string {
	if s == nil {
		return "<nil Structure>"
	}

	tw := &treeWriter{}
	tw.line(0, "Levels: %d", len(s.Levels))

	index := make(map[string][]string)
	for _, l := range s.Levels {
		tw.line(1, "Level[%q] title[%q] modules[%d]", l.ID, l.Title, len(l.Modules))
		for _, m := range l.Modules {
			tw.line(2, "Module[%q] slug[%q] title[%q]", m.ID, m.Slug, m.Title)
			index[m.Slug] = append(index[m.Slug], l.ID+"/"+string(m.ID))
		}
	}

	if len(index) > 0 {
		tw.line(0, "Slug index: %d", len(index))
		keys := slices.Collect(maps.Keys(index))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			tw.line(1, "Slug[%q] %s", k, strings.Join(index[k], ", "))
		}
	}
	return tw.String()
}
