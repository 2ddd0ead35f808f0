package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/ctf-hub/ctfbot/internal/domain/chat"
	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
)

type newChallHandler struct{}

func (newChallHandler) Help() string { return "add a new challenge to this event" }

func (newChallHandler) Args() []Arg {
	return []Arg{{Name: "category"}, {Name: "name"}}
}

func (h newChallHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	event, err := eventOf(env, inv)
	if err != nil {
		return err
	}
	category, err := requireArg(h, inv, 0)
	if err != nil {
		return err
	}
	name, err := requireArg(h, inv, 1)
	if err != nil {
		return err
	}
	if env.Directory.HasChallenge(event, name) {
		return fmt.Errorf("%w: %s", ctf.ErrDuplicateChallenge, name)
	}

	current, err := env.Messenger.GetChatInfo(ctx, inv.ChatID)
	if err != nil {
		return fmt.Errorf("failed to get chat info: %w", err)
	}
	group, err := env.Messenger.CreateChatGroup(ctx,
		fmt.Sprintf("%s - %s", current.Name, name),
		fmt.Sprintf("%s: %s", name, category))
	if err != nil {
		return fmt.Errorf("failed to create challenge chat: %w", err)
	}
	if _, err := env.Directory.AddChallenge(event, name, category, group.ChatID); err != nil {
		return err
	}
	env.Logger.Info().
		Str("event", event).
		Str("challenge", name).
		Str("category", category).
		Str("chatId", group.ChatID).
		Msg("challenge registered")

	if err := env.Messenger.SendMessage(ctx, inv.ChatID, chat.ShareChat(group.ChatID)); err != nil {
		return fmt.Errorf("failed to share challenge chat: %w", err)
	}

	token, ok := env.Directory.Doc(event)
	if !ok {
		return nil
	}
	patch := chat.DocumentPatch{AppendText: fmt.Sprintf("%s %s", category, name)}
	if err := env.Messenger.UpdateDocument(ctx, token, patch); err != nil {
		env.Logger.Warn().Err(err).Str("event", event).Str("doc", token).Msg("failed to update event doc")
		return reply(ctx, env, inv, fmt.Sprintf("Challenge %s registered, but updating the doc failed: %v", name, err))
	}
	return nil
}

type newCTFHandler struct{}

func (newCTFHandler) Help() string { return "create a new event with its main chat" }

func (newCTFHandler) Args() []Arg { return []Arg{{Name: "name"}} }

func (h newCTFHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	name, err := requireArg(h, inv, 0)
	if err != nil {
		return err
	}
	if _, exists := env.Directory.Event(name); exists {
		return fmt.Errorf("%w: %s", ctf.ErrDuplicateEvent, name)
	}

	group, err := env.Messenger.CreateChatGroup(ctx, name, fmt.Sprintf("%s main chat", name))
	if err != nil {
		return fmt.Errorf("failed to create main chat: %w", err)
	}
	if group.ChatID == "" {
		return fmt.Errorf("failed to create main chat: empty chat id")
	}
	if _, err := env.Directory.NewEvent(name); err != nil {
		return err
	}
	if err := env.Directory.BindMainChat(name, group.ChatID); err != nil {
		return err
	}
	env.Logger.Info().Str("event", name).Str("chatId", group.ChatID).Msg("event registered")

	if err := env.Messenger.SendMessage(ctx, inv.ChatID, chat.ShareChat(group.ChatID)); err != nil {
		return fmt.Errorf("failed to share main chat: %w", err)
	}
	return nil
}

type showChatHandler struct{}

func (showChatHandler) Help() string { return "share the main chat or a challenge chat" }

func (showChatHandler) Args() []Arg { return []Arg{{Name: "challenge", Optional: true}} }

func (showChatHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	event, err := eventOf(env, inv)
	if err != nil {
		return err
	}
	name := inv.Arg(0)
	var chatID string
	var ok bool
	if name == "" {
		if chatID, ok = env.Directory.MainChat(event); !ok {
			return reply(ctx, env, inv, fmt.Sprintf("%s has no main chat", event))
		}
	} else if chatID, ok = env.Directory.ChallengeChat(event, name); !ok {
		return fmt.Errorf("%w: %s", ctf.ErrUnknownChallenge, name)
	}
	return env.Messenger.SendMessage(ctx, inv.ChatID, chat.ShareChat(chatID))
}

type listHandler struct{}

func (listHandler) Help() string { return "list challenges of this event" }

func (listHandler) Args() []Arg { return nil }

func (listHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	event, err := eventOf(env, inv)
	if err != nil {
		return err
	}
	ev, ok := env.Directory.Event(event)
	if !ok {
		return fmt.Errorf("%w: %s", ctf.ErrUnknownEvent, event)
	}
	challenges := ev.Challenges()
	if len(challenges) == 0 {
		return reply(ctx, env, inv, "No challenges yet.")
	}
	lines := make([]string, 0, len(challenges))
	for _, c := range challenges {
		lines = append(lines, c.Summary())
	}
	return reply(ctx, env, inv, strings.Join(lines, "\n"))
}
