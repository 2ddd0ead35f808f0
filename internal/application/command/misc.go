package command

import (
	"context"
	"fmt"
)

type docHandler struct{}

func (docHandler) Help() string { return "set or show the shared doc of this event" }

func (docHandler) Args() []Arg { return []Arg{{Name: "token", Optional: true}} }

func (docHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	event, err := eventOf(env, inv)
	if err != nil {
		return err
	}
	token := inv.Arg(0)
	if token == "" {
		current, ok := env.Directory.Doc(event)
		if !ok {
			return reply(ctx, env, inv, fmt.Sprintf("No doc set for %s", event))
		}
		return reply(ctx, env, inv, fmt.Sprintf("Doc for %s: %s", event, current))
	}

	doc, err := env.Messenger.GetDocument(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to open doc %s: %w", token, err)
	}
	if err := env.Directory.SetDoc(event, token); err != nil {
		return err
	}
	title := doc.Title
	if title == "" {
		title = token
	}
	return reply(ctx, env, inv, fmt.Sprintf("Doc for %s set to %s", event, title))
}

type helpHandler struct {
	registry *Registry
}

func (helpHandler) Help() string { return "show this message" }

func (helpHandler) Args() []Arg { return nil }

func (h helpHandler) Handle(ctx context.Context, env *Env, inv *Invocation) error {
	return reply(ctx, env, inv, h.registry.Help())
}
