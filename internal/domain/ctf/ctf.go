package ctf

import (
	"errors"
	"strings"
)

// State represents challenge solve state.
type State string

const (
	StateOpen     State = "open"
	StateProgress State = "progress"
	StateStuck    State = "stuck"
	StateSolved   State = "solved"
)

var (
	ErrDuplicateEvent     = errors.New("event already exists")
	ErrDuplicateChallenge = errors.New("challenge already exists")
	ErrUnknownEvent       = errors.New("event does not exist")
	ErrUnknownChallenge   = errors.New("challenge does not exist")
	ErrUnboundChat        = errors.New("this chat is not associated with an event")
	ErrNotChallengeChat   = errors.New("this chat is not associated with a challenge")
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateOpen, StateProgress, StateStuck, StateSolved:
		return true
	}
	return false
}

// Worker is a participant marked as working on a challenge.
type Worker struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Challenge is one puzzle within an event.
type Challenge struct {
	Name       string
	categories []string
	state      State
	workers    []Worker
}

func newChallenge(name, category string) *Challenge {
	c := &Challenge{Name: name, state: StateOpen}
	c.AddCategory(category)
	return c
}

// AddCategory adds a category tag; duplicates and blanks are ignored.
func (c *Challenge) AddCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		return
	}
	for _, existing := range c.categories {
		if existing == category {
			return
		}
	}
	c.categories = append(c.categories, category)
}

func (c *Challenge) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

func (c *Challenge) State() State {
	return c.state
}

// SetState moves the challenge to s regardless of its current state.
func (c *Challenge) SetState(s State) {
	c.state = s
}

// AddWorker records userID as working on the challenge. It returns false
// when the user was already recorded.
func (c *Challenge) AddWorker(userID, displayName string) bool {
	for _, w := range c.workers {
		if w.UserID == userID {
			return false
		}
	}
	if displayName == "" {
		displayName = userID
	}
	c.workers = append(c.workers, Worker{UserID: userID, DisplayName: displayName})
	return true
}

// Workers returns workers in the order they joined.
func (c *Challenge) Workers() []Worker {
	out := make([]Worker, len(c.workers))
	copy(out, c.workers)
	return out
}

// Summary renders the challenge as a single listing line,
// e.g. "baby-rsa( crypto)[open]: alice, bob".
func (c *Challenge) Summary() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteString("(")
	for _, cat := range c.categories {
		b.WriteString(" ")
		b.WriteString(cat)
	}
	b.WriteString(")[")
	b.WriteString(string(c.state))
	b.WriteString("]: ")
	names := make([]string, 0, len(c.workers))
	for _, w := range c.workers {
		names = append(names, w.DisplayName)
	}
	b.WriteString(strings.Join(names, ", "))
	return b.String()
}

// Event is one CTF competition and the challenges registered for it.
type Event struct {
	Name       string
	challenges map[string]*Challenge
	order      []string
}

func newEvent(name string) *Event {
	return &Event{
		Name:       name,
		challenges: make(map[string]*Challenge),
	}
}

func (e *Event) Challenge(name string) (*Challenge, bool) {
	c, ok := e.challenges[name]
	return c, ok
}

// Challenges returns challenges in creation order.
func (e *Event) Challenges() []*Challenge {
	out := make([]*Challenge, 0, len(e.order))
	for _, name := range e.order {
		out = append(out, e.challenges[name])
	}
	return out
}

func (e *Event) addChallenge(name, category string) (*Challenge, error) {
	if _, ok := e.challenges[name]; ok {
		return nil, ErrDuplicateChallenge
	}
	c := newChallenge(name, category)
	e.challenges[name] = c
	e.order = append(e.order, name)
	return c, nil
}
