package dispatch

import (
	"context"
	"crypto/subtle"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/application/command"
	"github.com/ctf-hub/ctfbot/internal/domain/chat"
	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
	"github.com/ctf-hub/ctfbot/internal/domain/journal"
	"github.com/ctf-hub/ctfbot/internal/domain/webhook"
)

const (
	msgOK            = "ok"
	msgDuplicate     = "ignored duplicate event"
	msgNotMine       = "not my message"
	unknownCommand   = "No such command: "
	emptyCommand     = "<empty>"
	exceptionMessage = "Exception happened in bot: "
)

// Recorder receives one journal entry per routed command.
type Recorder interface {
	Record(ctx context.Context, entry *journal.Entry)
}

// Result is the acknowledgement returned to the webhook caller.
type Result struct {
	Challenge string `json:"challenge,omitempty"`
	Message   string `json:"msg,omitempty"`
}

type Config struct {
	VerificationToken string
	// BotOpenID is the bot's own open id. When empty any mention counts as
	// addressing the bot.
	BotOpenID string
}

// Dispatcher turns webhook deliveries into command invocations. Every
// delivery is handled under one lock, so commands never interleave.
type Dispatcher struct {
	mu        sync.Mutex
	directory *ctf.Directory
	registry  *command.Registry
	messenger chat.Messenger
	dedup     webhook.Deduplicator
	recorder  Recorder
	cfg       Config
	logger    zerolog.Logger
}

func NewDispatcher(
	directory *ctf.Directory,
	registry *command.Registry,
	messenger chat.Messenger,
	dedup webhook.Deduplicator,
	cfg Config,
	logger zerolog.Logger,
) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		registry:  registry,
		messenger: messenger,
		dedup:     dedup,
		cfg:       cfg,
		logger:    logger.With().Str("service", "dispatch").Logger(),
	}
}

// SetRecorder enables journaling of routed commands.
func (d *Dispatcher) SetRecorder(r Recorder) {
	d.recorder = r
}

// Handle processes one raw webhook body.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) (*Result, error) {
	env, err := webhook.Decode(body)
	if err != nil {
		return nil, err
	}
	if env.IsVerification() {
		return d.verify(env)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// A delivery whose deadline passed while it waited for the lock leaves
	// its event id unrecorded.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if token := env.RequestToken(); token != "" && !d.tokenMatches(token) {
		return nil, webhook.ErrInvalidToken
	}
	eventID := env.EventID()
	isNew, err := d.dedup.IsNew(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check event id: %w", err)
	}
	if !isNew {
		d.logger.Debug().Str("eventId", eventID).Msg("duplicate event ignored")
		return &Result{Message: msgDuplicate}, nil
	}
	if env.EventType() != webhook.EventTypeMessageReceive {
		return nil, fmt.Errorf("%w: %q", webhook.ErrUnsupportedEventType, env.EventType())
	}
	event, err := env.MessageReceiveEvent()
	if err != nil {
		chatID := env.ChatID()
		if chatID == "" {
			return nil, err
		}
		logger := d.logger.With().Str("eventId", eventID).Str("chatId", chatID).Logger()
		logger.Warn().Err(err).Msg("undecodable message event")
		d.reply(ctx, logger, chatID, exceptionMessage+err.Error())
		return &Result{Message: msgOK}, nil
	}
	return d.handleMessage(ctx, eventID, event)
}

func (d *Dispatcher) verify(env *webhook.Envelope) (*Result, error) {
	if env.Token == "" {
		return nil, webhook.ErrMissingToken
	}
	if !d.tokenMatches(env.Token) {
		return nil, webhook.ErrInvalidToken
	}
	if env.Challenge == "" {
		return nil, fmt.Errorf("%w: challenge is missing", webhook.ErrMalformedPayload)
	}
	return &Result{Challenge: env.Challenge}, nil
}

func (d *Dispatcher) tokenMatches(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(d.cfg.VerificationToken)) == 1
}

func (d *Dispatcher) handleMessage(ctx context.Context, eventID string, event *larkim.P2MessageReceiveV1Data) (*Result, error) {
	msg := event.Message
	if !d.addressedToBot(msg.Mentions) {
		return &Result{Message: msgNotMine}, nil
	}
	chatID := webhook.Value(msg.ChatId)
	sender := webhook.SenderID(event)

	logger := d.logger.With().
		Str("eventId", eventID).
		Str("chatId", chatID).
		Str("senderId", sender).
		Logger()

	text, err := webhook.MessageText(msg)
	if err != nil {
		logger.Warn().Err(err).Msg("undecodable message content")
		d.reply(ctx, logger, chatID, exceptionMessage+err.Error())
		return &Result{Message: msgOK}, nil
	}
	text = stripMention(text)

	entry, inv, ok := d.registry.Parse(text)
	if !ok {
		name := text
		if name == "" {
			name = emptyCommand
		}
		logger.Info().Str("text", text).Msg("unknown command")
		d.record(ctx, journal.NewEntry(eventID, chatID, sender, text, nil), journal.OutcomeUnknownCommand, nil)
		d.reply(ctx, logger, chatID, unknownCommand+name)
		return &Result{Message: msgOK}, nil
	}
	inv.ChatID = chatID
	inv.SenderID = sender
	inv.EventID = eventID

	journalEntry := journal.NewEntry(eventID, chatID, sender, entry.Names[0], inv.Args)
	runErr := d.run(ctx, entry, inv)

	outcome := journal.OutcomeHandled
	switch {
	case runErr == nil:
	case command.IsUserError(runErr):
		outcome = journal.OutcomeRejected
		d.reply(ctx, logger, chatID, runErr.Error())
	default:
		outcome = journal.OutcomeFailed
		logger.Error().Err(runErr).Str("command", inv.Name).Msg("command failed")
		d.reply(ctx, logger, chatID, exceptionMessage+runErr.Error())
	}
	d.record(ctx, journalEntry, outcome, runErr)
	logger.Info().
		Str("command", inv.Name).
		Strs("args", inv.Args).
		Str("outcome", string(outcome)).
		Msg("command handled")
	return &Result{Message: msgOK}, nil
}

// run invokes the command, turning a panic into an error that carries the stack.
func (d *Dispatcher) run(ctx context.Context, entry *command.Entry, inv *command.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.logger.Error().
				Str("command", inv.Name).
				Interface("panic", r).
				Bytes("stack", stack).
				Msg("command panicked")
			err = fmt.Errorf("panic: %v\n%s", r, stack)
		}
	}()
	cmdEnv := &command.Env{
		Directory: d.directory,
		Messenger: d.messenger,
		Logger:    d.logger,
	}
	return d.registry.Run(ctx, entry, cmdEnv, inv)
}

func (d *Dispatcher) addressedToBot(mentions []*larkim.MentionEvent) bool {
	if len(mentions) == 0 {
		return false
	}
	for _, m := range mentions {
		openID := webhook.MentionOpenID(m)
		if openID == "" {
			return false
		}
		if d.cfg.BotOpenID != "" && openID != d.cfg.BotOpenID {
			return false
		}
	}
	return true
}

// stripMention drops the leading "@..." mention placeholder.
func stripMention(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "@") {
		return text
	}
	i := strings.IndexAny(text, " \t\n")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(text[i:])
}

func (d *Dispatcher) reply(ctx context.Context, logger zerolog.Logger, chatID, text string) {
	if err := d.messenger.SendMessage(ctx, chatID, chat.Text(text)); err != nil {
		logger.Error().Err(err).Msg("failed to send reply")
	}
}

func (d *Dispatcher) record(ctx context.Context, entry *journal.Entry, outcome journal.Outcome, err error) {
	if d.recorder == nil {
		return
	}
	entry.Finish(outcome, err)
	d.recorder.Record(ctx, entry)
}

// Snapshot returns a read-only view of all events.
func (d *Dispatcher) Snapshot() []ctf.EventView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.directory.Snapshot()
}
