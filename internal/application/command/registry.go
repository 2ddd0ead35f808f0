package command

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Entry is a registered handler and every name it answers to.
type Entry struct {
	Names   []string
	Handler Handler
}

// Registry maps command names to handlers.
type Registry struct {
	entries      []*Entry
	byName       map[string]*Entry
	enforceArity bool
}

func NewRegistry(enforceArity bool) *Registry {
	return &Registry{
		byName:       make(map[string]*Entry),
		enforceArity: enforceArity,
	}
}

// Register adds h under name and aliases. Names must not contain spaces
// and must be unique.
func (r *Registry) Register(h Handler, name string, aliases ...string) {
	entry := &Entry{Names: append([]string{name}, aliases...), Handler: h}
	for _, n := range entry.Names {
		if n == "" || strings.ContainsFunc(n, unicode.IsSpace) {
			panic(fmt.Sprintf("command: invalid name %q", n))
		}
		if _, dup := r.byName[n]; dup {
			panic(fmt.Sprintf("command: duplicate name %q", n))
		}
		r.byName[n] = entry
	}
	r.entries = append(r.entries, entry)
}

func (r *Registry) Entries() []*Entry {
	return r.entries
}

// Match selects the command text is addressed to. A name matches when the
// text equals it or starts with the name followed by a space, so "nc foo"
// selects "nc" and "ncx foo" selects nothing.
func (r *Registry) Match(text string) (*Entry, string, string, bool) {
	text = strings.TrimSpace(text)
	for _, entry := range r.entries {
		for _, name := range entry.Names {
			if text == name {
				return entry, name, "", true
			}
			if strings.HasPrefix(text, name+" ") {
				return entry, name, strings.TrimSpace(text[len(name):]), true
			}
		}
	}
	return nil, "", "", false
}

// Parse matches text and splits its remainder into arguments.
func (r *Registry) Parse(text string) (*Entry, *Invocation, bool) {
	entry, name, rest, ok := r.Match(text)
	if !ok {
		return nil, nil, false
	}
	return entry, &Invocation{
		Name: name,
		Args: SplitArgs(rest, len(entry.Handler.Args())),
	}, true
}

// Run invokes the entry's handler, checking arity first when enforcement is on.
func (r *Registry) Run(ctx context.Context, entry *Entry, env *Env, inv *Invocation) error {
	if r.enforceArity {
		if want := requiredArgs(entry.Handler); len(inv.Args) < want {
			return fmt.Errorf("%w: expected %d args got %d: %s", ErrMalformedCommand, want, len(inv.Args), Usage(inv.Name, entry.Handler))
		}
	}
	return entry.Handler.Handle(ctx, env, inv)
}

// Help lists every command with its usage.
func (r *Registry) Help() string {
	lines := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		line := Usage(entry.Names[0], entry.Handler)
		if len(entry.Names) > 1 {
			line += " (aliases: " + strings.Join(entry.Names[1:], ", ") + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Usage renders "name: help - name arg [optional]".
func Usage(name string, h Handler) string {
	parts := make([]string, 0, len(h.Args())+1)
	parts = append(parts, name)
	for _, a := range h.Args() {
		parts = append(parts, a.String())
	}
	return fmt.Sprintf("%s: %s - %s", name, h.Help(), strings.Join(parts, " "))
}

// SplitArgs splits s on whitespace into at most n fields; the last field
// keeps the rest of the text, inner spaces included.
func SplitArgs(s string, n int) []string {
	s = strings.TrimSpace(s)
	if n <= 0 || s == "" {
		return nil
	}
	out := make([]string, 0, n)
	for len(out) < n-1 {
		i := strings.IndexFunc(s, unicode.IsSpace)
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimSpace(s[i:])
	}
	return append(out, s)
}

// Default builds the registry with every bot command.
func Default(enforceArity bool) *Registry {
	r := NewRegistry(enforceArity)
	r.Register(newChallHandler{}, "new-chall", "nc", "新题")
	r.Register(newCTFHandler{}, "newctf")
	r.Register(showChatHandler{}, "showchat", "sc")
	r.Register(listHandler{}, "ls")
	r.Register(workHandler{}, "w")
	r.Register(markHandler{state: solvedState}, "solved", "solve")
	r.Register(markHandler{state: stuckState}, "stuck")
	r.Register(markHandler{state: progressState}, "progress", "prog")
	r.Register(docHandler{}, "doc")
	r.Register(helpHandler{registry: r}, "help")
	return r
}
