package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/domain/chat"
	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
)

var ErrMalformedCommand = errors.New("malformed command")

// Arg describes one positional argument for usage text and arity checks.
type Arg struct {
	Name     string
	Optional bool
}

func (a Arg) String() string {
	if a.Optional {
		return "[" + a.Name + "]"
	}
	return a.Name
}

// Handler is one bot command.
type Handler interface {
	Help() string
	Args() []Arg
	Handle(ctx context.Context, env *Env, inv *Invocation) error
}

// Env is the state and ports a handler works against.
type Env struct {
	Directory *ctf.Directory
	Messenger chat.Messenger
	Logger    zerolog.Logger
}

// Invocation is a parsed command delivery.
type Invocation struct {
	Name     string
	Args     []string
	ChatID   string
	SenderID string
	EventID  string
}

// Arg returns the i-th argument or "" when absent.
func (inv *Invocation) Arg(i int) string {
	if i < 0 || i >= len(inv.Args) {
		return ""
	}
	return inv.Args[i]
}

// IsUserError reports whether err is a precondition failure that should be
// shown to the chat as-is rather than as an internal failure.
func IsUserError(err error) bool {
	for _, target := range []error{
		ErrMalformedCommand,
		ctf.ErrDuplicateEvent,
		ctf.ErrDuplicateChallenge,
		ctf.ErrUnknownEvent,
		ctf.ErrUnknownChallenge,
		ctf.ErrUnboundChat,
		ctf.ErrNotChallengeChat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func requiredArgs(h Handler) int {
	n := 0
	for _, a := range h.Args() {
		if !a.Optional {
			n++
		}
	}
	return n
}

// requireArg returns the i-th argument or a malformed command error naming it.
func requireArg(h Handler, inv *Invocation, i int) (string, error) {
	if v := inv.Arg(i); v != "" {
		return v, nil
	}
	name := "argument"
	if args := h.Args(); i < len(args) {
		name = args[i].Name
	}
	return "", fmt.Errorf("%w: missing %s; usage: %s", ErrMalformedCommand, name, Usage(inv.Name, h))
}

func reply(ctx context.Context, env *Env, inv *Invocation, text string) error {
	return env.Messenger.SendMessage(ctx, inv.ChatID, chat.Text(text))
}

func eventOf(env *Env, inv *Invocation) (string, error) {
	event, ok := env.Directory.ResolveEvent(inv.ChatID)
	if !ok {
		return "", ctf.ErrUnboundChat
	}
	return event, nil
}
