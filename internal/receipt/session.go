package receipt

import (
	"errors"
	"fmt"
)

// State identifies where a categorization session is in its lifecycle
type State int

const (
	// StateIdle means no items are loaded
	StateIdle State = iota
	// StateReviewing means items are loaded and selection is togglable
	StateReviewing
	// StateCategorizing means the session is presenting items one at a time
	StateCategorizing
	// StateComplete means every queued item has been categorized
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReviewing:
		return "reviewing"
	case StateCategorizing:
		return "categorizing"
	case StateComplete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Category is the expense assignment for a single item
type Category int

const (
	// CategoryMe assigns the full price to the current user
	CategoryMe Category = iota
	// CategoryRoommate assigns the full price to the other household member
	CategoryRoommate
	// CategoryShared splits the price equally between both members
	CategoryShared
)

func (c Category) String() string {
	switch c {
	case CategoryMe:
		return "me"
	case CategoryRoommate:
		return "roommate"
	case CategoryShared:
		return "shared"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory converts the wire form ("me", "roommate", "shared") back to a
// Category
func ParseCategory(s string) (Category, error) {
	switch s {
	case "me":
		return CategoryMe, nil
	case "roommate":
		return CategoryRoommate, nil
	case "shared":
		return CategoryShared, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

// CategorizedItem is an Item plus its assignment, immutable once created
type CategorizedItem struct {
	Item
	Category Category `json:"category"`
}

var (
	// ErrInvalidTransition indicates an action the current state does not
	// permit. This is a caller bug, not a user-facing condition; the UI is
	// expected to disable controls outside their valid state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrNoSelection indicates Start was called with zero selected items
	ErrNoSelection = errors.New("no items selected")
)

// Session drives the one-item-at-a-time categorization flow. One session is
// active per scan-to-summary interaction; all transitions are triggered by
// discrete user actions, so no locking is involved. The session owns its
// state exclusively and performs no I/O.
type Session struct {
	state       State
	items       []Item
	cursor      int
	categorized []CategorizedItem
}

// NewSession creates an idle session
func NewSession() *Session {
	return &Session{state: StateIdle, categorized: []CategorizedItem{}}
}

// Load moves Idle -> Reviewing with the given parsed items
func (s *Session) Load(items []Item) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: load while %s", ErrInvalidTransition, s.state)
	}
	s.items = append([]Item(nil), items...)
	s.state = StateReviewing
	return nil
}

// ToggleSelection flips one item's selected flag while Reviewing
func (s *Session) ToggleSelection(index int) error {
	if s.state != StateReviewing {
		return fmt.Errorf("%w: toggle selection while %s", ErrInvalidTransition, s.state)
	}
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("item index %d out of range", index)
	}
	s.items[index].Selected = !s.items[index].Selected
	return nil
}

// Start moves Reviewing -> Categorizing. Only selected items enter the
// queue; unselected ones are dropped here. Requires at least one selected
// item, otherwise the session stays in Reviewing.
func (s *Session) Start() error {
	if s.state != StateReviewing {
		return fmt.Errorf("%w: start while %s", ErrInvalidTransition, s.state)
	}

	queue := make([]Item, 0, len(s.items))
	for _, item := range s.items {
		if item.Selected {
			queue = append(queue, item)
		}
	}
	if len(queue) == 0 {
		return ErrNoSelection
	}

	s.items = queue
	s.state = StateCategorizing
	return nil
}

// Assign categorizes the current item and advances the cursor by exactly one.
// There is no skip: every presented item gets exactly one assignment. When the
// cursor reaches the end of the queue the session completes.
func (s *Session) Assign(category Category) error {
	if s.state != StateCategorizing {
		return fmt.Errorf("%w: assign while %s", ErrInvalidTransition, s.state)
	}

	s.categorized = append(s.categorized, CategorizedItem{Item: s.items[s.cursor], Category: category})
	s.cursor++
	if s.cursor == len(s.items) {
		s.state = StateComplete
	}
	return nil
}

// Reset returns the session to Idle from any state, discarding everything.
// Closing the modal mid-flow is equivalent to Reset.
func (s *Session) Reset() {
	*s = Session{state: StateIdle, categorized: []CategorizedItem{}}
}

// State returns the current lifecycle state
func (s *Session) State() State {
	return s.state
}

// Items returns a copy of the loaded items
func (s *Session) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Current returns the item awaiting categorization, if any
func (s *Session) Current() (Item, bool) {
	if s.state != StateCategorizing {
		return Item{}, false
	}
	return s.items[s.cursor], true
}

// Categorized returns a copy of the categorized items in presentation order
func (s *Session) Categorized() []CategorizedItem {
	return append([]CategorizedItem(nil), s.categorized...)
}

// Progress reports how many items have been categorized out of the queue
func (s *Session) Progress() (done, total int) {
	return s.cursor, len(s.items)
}
