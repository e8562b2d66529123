package viewer

import (
	"fmt"

	"tableview/internal/models"
	"tableview/internal/util"
)

type State int

const (
	StateLoading State = iota
	StateEmpty
	StateViewing
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateEmpty:
		return "empty"
	case StateViewing:
		return "viewing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is the selection state machine for one view of the store.
type Session struct {
	snap     Snapshot
	state    State
	selected string
}

func NewSession(snap Snapshot) *Session {
	s := &Session{snap: snap}
	switch {
	case snap.Loading:
		s.state = StateLoading
	case snap.DefaultKey != "":
		s.state = StateViewing
		s.selected = snap.DefaultKey
	default:
		s.state = StateEmpty
	}
	return s
}

func (s *Session) State() State { return s.state }

func (s *Session) Selected() string { return s.selected }

func (s *Session) Manifest() models.Manifest { return s.snap.Manifest }

// Entry returns the selected document's entry when viewing.
func (s *Session) Entry() (models.FileEntry, bool) {
	if s.state != StateViewing {
		return models.FileEntry{}, false
	}
	return s.snap.Manifest.Get(s.selected)
}

// Select moves to Viewing(key) for any manifest key, or to Empty for "".
// Unknown keys leave the state unchanged.
func (s *Session) Select(key string) error {
	if s.state == StateLoading {
		return util.ErrLoading
	}
	if key == "" {
		s.state = StateEmpty
		s.selected = ""
		return nil
	}
	if !s.snap.Manifest.Has(key) {
		return fmt.Errorf("%w: %q", util.ErrUnknownDocument, key)
	}
	s.state = StateViewing
	s.selected = key
	return nil
}
