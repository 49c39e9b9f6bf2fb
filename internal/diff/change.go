package diff

// ChangeType classifies what a change touched.
type ChangeType string

const (
	ChangeNone      ChangeType = "none"
	ChangeTextOnly  ChangeType = "text-only"
	ChangeAttribute ChangeType = "attribute"
	ChangeStructure ChangeType = "structure"
	ChangeComplex   ChangeType = "complex"
)

// Change describes one mutation made to the live tree while reconciling.
type Change struct {
	Op    string     `json:"op"`
	Type  ChangeType `json:"type"`
	Path  string     `json:"path"`
	Index int        `json:"index"`
	Old   string     `json:"old,omitempty"`
	New   string     `json:"new,omitempty"`
}

// Observer receives changes in the order they are applied.
type Observer func(Change)

// Classify reduces changes to one type: a batch holding a single kind of
// change has that kind, a mix of kinds is complex.
func Classify(changes []Change) ChangeType {
	kind := ChangeNone
	for _, c := range changes {
		switch {
		case c.Type == ChangeNone || c.Type == kind:
		case kind == ChangeNone:
			kind = c.Type
		default:
			return ChangeComplex
		}
	}
	return kind
}

// Stats counts the operations a reconciliation applied, children included.
type Stats struct {
	Removed  int `json:"removed"`
	Appended int `json:"appended"`
	Inserted int `json:"inserted"`
	Moved    int `json:"moved"`
	Replaced int `json:"replaced"`
	Patched  int `json:"patched"`
}

func (s *Stats) add(kind OpKind) {
	switch kind {
	case OpRemove:
		s.Removed++
	case OpAppend:
		s.Appended++
	case OpInsert:
		s.Inserted++
	case OpMove:
		s.Moved++
	case OpReplace:
		s.Replaced++
	case OpPatch:
		s.Patched++
	}
}

// Structural returns the number of operations that changed tree shape.
func (s Stats) Structural() int {
	return s.Removed + s.Appended + s.Inserted + s.Moved + s.Replaced
}

// Total returns the number of operations applied.
func (s Stats) Total() int {
	return s.Structural() + s.Patched
}
