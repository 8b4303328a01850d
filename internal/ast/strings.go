package ast

// Strings interns node text (identifiers, literal values, templates, tags).
type Strings struct {
	byID  []string // byID[0] = "" for NoStringID
	index map[string]StringID
}

func NewStrings() *Strings {
	return &Strings{
		byID:  []string{""},
		index: map[string]StringID{"": NoStringID},
	}
}

// Intern returns the ID of s, adding it on first sight.
func (s *Strings) Intern(str string) StringID {
	if id, ok := s.index[str]; ok {
		return id
	}
	id := StringID(len(s.byID))
	s.byID = append(s.byID, str)
	s.index[str] = id
	return id
}

// Lookup returns the string for id, or false if id was never interned.
func (s *Strings) Lookup(id StringID) (string, bool) {
	if int(id) >= len(s.byID) {
		return "", false
	}
	return s.byID[id], true
}

// MustLookup is Lookup that panics on unknown IDs.
func (s *Strings) MustLookup(id StringID) string {
	str, ok := s.Lookup(id)
	if !ok {
		panic("ast: invalid string ID")
	}
	return str
}

func (s *Strings) Len() int {
	return len(s.byID)
}
