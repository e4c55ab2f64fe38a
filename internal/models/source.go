package models

// Source is the media source a browse runs against.
type Source interface {
	// ID returns the stable identifier of the source.
	ID() string

	// Name returns a human readable name.
	Name() string

	// SupportedOperations returns the bitmask of operations the source restricts through caps.
	SupportedOperations() Operation

	// Caps returns the capability set for op, or nil when op is unsupported.
	Caps(op Operation) *Caps
}

// StaticSource is a [Source] with a fixed capability table.
type StaticSource struct {
	id   string
	name string
	ops  Operation
	caps map[Operation]*Caps
}

// NewStaticSource creates a source supporting ops, each restricted by the matching caps entry.
func NewStaticSource(id, name string, caps map[Operation]*Caps) *StaticSource {
	s := &StaticSource{id: id, name: name, caps: make(map[Operation]*Caps, len(caps))}
	for op, c := range caps {
		s.ops |= op
		s.caps[op] = c
	}
	return s
}

func (s *StaticSource) ID() string                     { return s.id }
func (s *StaticSource) Name() string                   { return s.name }
func (s *StaticSource) SupportedOperations() Operation { return s.ops }

func (s *StaticSource) Caps(op Operation) *Caps {
	if s.ops&op == 0 {
		return nil
	}
	return s.caps[op]
}
