package command

import (
	"context"
	"fmt"

	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
)

type workHandler struct{}

func (workHandler) Help() string { return "mark yourself as working on this challenge" }

func (workHandler) Args() []Arg { return nil }

func (workHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	_, c, err := env.Directory.ResolveChallenge(inv.ChatID)
	if err != nil {
		return err
	}
	if inv.SenderID == "" {
		return fmt.Errorf("sender of the message is unknown")
	}
	display, err := env.Messenger.GetUserDisplayName(ctx, inv.SenderID)
	if err != nil {
		return fmt.Errorf("failed to get user name: %w", err)
	}
	if !c.AddWorker(inv.SenderID, display) {
		return reply(ctx, env, inv, fmt.Sprintf("%s is already working on %s", display, c.Name))
	}
	return reply(ctx, env, inv, fmt.Sprintf("%s is working on %s", display, c.Name))
}

type stateChange struct {
	state  ctf.State
	help   string
	notice string
}

var (
	solvedState   = stateChange{state: ctf.StateSolved, help: "mark this challenge as solved", notice: "Congratulations! %s is solved."}
	stuckState    = stateChange{state: ctf.StateStuck, help: "mark this challenge as stuck", notice: "%s is marked as stuck."}
	progressState = stateChange{state: ctf.StateProgress, help: "mark this challenge as in progress", notice: "%s is marked as in progress."}
)

// markHandler moves the challenge bound to the chat into a fixed state.
type markHandler struct {
	state stateChange
}

func (h markHandler) Help() string { return h.state.help }

func (markHandler) Args() []Arg { return nil }

func (h markHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	ev, c, err := env.Directory.ResolveChallenge(inv.ChatID)
	if err != nil {
		return err
	}
	c.SetState(h.state.state)
	env.Logger.Info().
		Str("event", ev.Name).
		Str("challenge", c.Name).
		Str("state", string(h.state.state)).
		Msg("challenge state changed")
	return reply(ctx, env, inv, fmt.Sprintf(h.state.notice, c.Name))
}
