package course

// FindLevel returns the first level with requested id. Outline is hand
// authored and nobody checks uniqueness of level ids, so when duplicates
// exist the earliest one wins.
func (s *Structure) FindLevel(id string) (*Level, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Levels {
		if s.Levels[i].ID == id {
			return &s.Levels[i], true
		}
	}
	return nil, false
}

// LevelIDs returns ids of all levels in document order.
func (s *Structure) LevelIDs() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Levels))
	for _, l := range s.Levels {
		ids = append(ids, l.ID)
	}
	return ids
}
