package notes

// Note is a named text record. Name is immutable once created.
type Note struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Collection is the ordered set of all notes, persisted as one unit.
type Collection []Note

// index returns the position of the first note called name, or -1.
func (c Collection) index(name string) int {
	for i, n := range c {
		if n.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no backing array with c.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	copy(out, c)
	return out
}

type CreateNoteRequest struct {
	Name string `json:"note_name"`
	Text string `json:"note"`
}

// Validate reports ErrInvalidInput when either field is empty.
func (r CreateNoteRequest) Validate() error {
	if r.Name == "" || r.Text == "" {
		return ErrInvalidInput
	}
	return nil
}

type UpdateNoteRequest struct {
	Text string `json:"note"`
}
