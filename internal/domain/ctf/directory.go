package ctf

import (
	"fmt"
	"sort"
	"strings"
)

// Binding is what a chat group is bound to. An empty Challenge marks the
// event's main chat.
type Binding struct {
	Event     string
	Challenge string
}

// IsMain reports whether the binding is an event main chat.
func (b Binding) IsMain() bool {
	return b.Challenge == ""
}

type eventChats struct {
	mainChat   string
	challenges map[string]string
	doc        string
}

// Directory keeps three views of the same data consistent: chat group to
// binding, event to its chats, and the event registry itself.
//
// Directory is not safe for concurrent use; callers serialize access.
type Directory struct {
	events map[string]*Event
	groups map[string]Binding
	chats  map[string]*eventChats
}

func NewDirectory() *Directory {
	return &Directory{
		events: make(map[string]*Event),
		groups: make(map[string]Binding),
		chats:  make(map[string]*eventChats),
	}
}

// NewEvent registers an event with no challenges. The main chat is bound
// separately once it exists.
func (d *Directory) NewEvent(name string) (*Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("event name is required")
	}
	if _, ok := d.events[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, name)
	}
	ev := newEvent(name)
	d.events[name] = ev
	d.chats[name] = &eventChats{challenges: make(map[string]string)}
	return ev, nil
}

// BindMainChat binds chatID as the main chat of event.
func (d *Directory) BindMainChat(event, chatID string) error {
	ec, ok := d.chats[event]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	if chatID == "" {
		return fmt.Errorf("chat id is required")
	}
	if ec.mainChat != "" {
		delete(d.groups, ec.mainChat)
	}
	ec.mainChat = chatID
	d.groups[chatID] = Binding{Event: event}
	return nil
}

// AddChallenge registers a challenge in event and binds chatID to it.
func (d *Directory) AddChallenge(event, name, category, chatID string) (*Challenge, error) {
	ev, ok := d.events[event]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("challenge name is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	c, err := ev.addChallenge(name, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, name)
	}
	d.groups[chatID] = Binding{Event: event, Challenge: name}
	d.chats[event].challenges[name] = chatID
	return c, nil
}

// HasChallenge reports whether event already has a challenge called name.
func (d *Directory) HasChallenge(event, name string) bool {
	ev, ok := d.events[event]
	if !ok {
		return false
	}
	_, ok = ev.Challenge(name)
	return ok
}

func (d *Directory) Event(name string) (*Event, bool) {
	ev, ok := d.events[name]
	return ev, ok
}

// Events returns all events sorted by name.
func (d *Directory) Events() []*Event {
	out := make([]*Event, 0, len(d.events))
	for _, ev := range d.events {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (d *Directory) ResolveEvent(chatID string) (string, bool) {
	b, ok := d.groups[chatID]
	if !ok {
		return "", false
	}
	return b.Event, true
}

func (d *Directory) ResolveBinding(chatID string) (Binding, bool) {
	b, ok := d.groups[chatID]
	return b, ok
}

// ResolveChallenge returns the event and challenge bound to chatID.
func (d *Directory) ResolveChallenge(chatID string) (*Event, *Challenge, error) {
	b, ok := d.groups[chatID]
	if !ok {
		return nil, nil, ErrUnboundChat
	}
	if b.IsMain() {
		return nil, nil, ErrNotChallengeChat
	}
	ev, ok := d.events[b.Event]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownEvent, b.Event)
	}
	c, ok := ev.Challenge(b.Challenge)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownChallenge, b.Challenge)
	}
	return ev, c, nil
}

func (d *Directory) MainChat(event string) (string, bool) {
	ec, ok := d.chats[event]
	if !ok || ec.mainChat == "" {
		return "", false
	}
	return ec.mainChat, true
}

func (d *Directory) ChallengeChat(event, challenge string) (string, bool) {
	ec, ok := d.chats[event]
	if !ok {
		return "", false
	}
	chatID, ok := ec.challenges[challenge]
	return chatID, ok
}

// SetDoc records the document handle attached to event.
func (d *Directory) SetDoc(event, token string) error {
	ec, ok := d.chats[event]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
	ec.doc = strings.TrimSpace(token)
	return nil
}

func (d *Directory) Doc(event string) (string, bool) {
	ec, ok := d.chats[event]
	if !ok || ec.doc == "" {
		return "", false
	}
	return ec.doc, true
}
