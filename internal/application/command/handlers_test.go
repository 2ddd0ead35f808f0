package command

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ctf-hub/ctfbot/internal/domain/chat"
	chatMocks "github.com/ctf-hub/ctfbot/internal/domain/chat/mocks"
	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
)

type harness struct {
	registry  *Registry
	env       *Env
	messenger *chatMocks.MockMessenger
}

func newHarness(t *testing.T, enforceArity bool) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)
	messenger := chatMocks.NewMockMessenger(ctrl)
	return &harness{
		registry: Default(enforceArity),
		env: &Env{
			Directory: ctf.NewDirectory(),
			Messenger: messenger,
			Logger:    zerolog.Nop(),
		},
		messenger: messenger,
	}
}

func (h *harness) run(t *testing.T, chatID, sender, text string) error {
	t.Helper()
	entry, inv, ok := h.registry.Parse(text)
	require.True(t, ok, "no command for %q", text)
	inv.ChatID = chatID
	inv.SenderID = sender
	return h.registry.Run(context.Background(), entry, h.env, inv)
}

// seed registers event "ctf24" with main chat G1 and challenge baby-rsa in C1.
func (h *harness) seed(t *testing.T) {
	t.Helper()
	_, err := h.env.Directory.NewEvent("ctf24")
	require.NoError(t, err)
	require.NoError(t, h.env.Directory.BindMainChat("ctf24", "G1"))
	_, err = h.env.Directory.AddChallenge("ctf24", "baby-rsa", "crypto", "C1")
	require.NoError(t, err)
}

func TestNewCTF(t *testing.T) {
	h := newHarness(t, false)
	gomock.InOrder(
		h.messenger.EXPECT().CreateChatGroup(gomock.Any(), "ctf24", "ctf24 main chat").
			Return(&chat.ChatInfo{ChatID: "G1", Name: "ctf24"}, nil),
		h.messenger.EXPECT().SendMessage(gomock.Any(), "G0", chat.ShareChat("G1")).Return(nil),
	)

	require.NoError(t, h.run(t, "G0", "ou_alice", "newctf ctf24"))

	event, ok := h.env.Directory.ResolveEvent("G1")
	require.True(t, ok)
	assert.Equal(t, "ctf24", event)
	main, ok := h.env.Directory.MainChat("ctf24")
	require.True(t, ok)
	assert.Equal(t, "G1", main)

	err := h.run(t, "G0", "ou_alice", "newctf ctf24")
	assert.True(t, errors.Is(err, ctf.ErrDuplicateEvent))
}

func TestNewCTF_CreateFails(t *testing.T) {
	h := newHarness(t, false)
	h.messenger.EXPECT().CreateChatGroup(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("code 99991663: token invalid"))

	err := h.run(t, "G0", "ou_alice", "newctf ctf24")
	require.Error(t, err)
	assert.False(t, IsUserError(err))
	_, exists := h.env.Directory.Event("ctf24")
	assert.False(t, exists)
}

func TestNewChall(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.env.Directory.NewEvent("ctf24")
	require.NoError(t, err)
	require.NoError(t, h.env.Directory.BindMainChat("ctf24", "G1"))

	gomock.InOrder(
		h.messenger.EXPECT().GetChatInfo(gomock.Any(), "G1").Return(&chat.ChatInfo{ChatID: "G1", Name: "ctf24"}, nil),
		h.messenger.EXPECT().CreateChatGroup(gomock.Any(), "ctf24 - baby-rsa", "baby-rsa: crypto").
			Return(&chat.ChatInfo{ChatID: "C1"}, nil),
		h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.ShareChat("C1")).Return(nil),
		h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.Text("baby-rsa( crypto)[open]: ")).Return(nil),
	)

	require.NoError(t, h.run(t, "G1", "ou_alice", "nc crypto baby-rsa"))
	require.NoError(t, h.run(t, "G1", "ou_alice", "ls"))

	b, ok := h.env.Directory.ResolveBinding("C1")
	require.True(t, ok)
	assert.Equal(t, ctf.Binding{Event: "ctf24", Challenge: "baby-rsa"}, b)

	err = h.run(t, "G1", "ou_alice", "nc crypto baby-rsa")
	assert.True(t, errors.Is(err, ctf.ErrDuplicateChallenge))
}

func TestNewChall_AppendsToDoc(t *testing.T) {
	h := newHarness(t, false)
	h.seed(t)
	require.NoError(t, h.env.Directory.SetDoc("ctf24", "doxcn123"))

	h.messenger.EXPECT().GetChatInfo(gomock.Any(), "G1").Return(&chat.ChatInfo{Name: "ctf24"}, nil)
	h.messenger.EXPECT().CreateChatGroup(gomock.Any(), "ctf24 - login", "login: web").
		Return(&chat.ChatInfo{ChatID: "C2"}, nil)
	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.ShareChat("C2")).Return(nil)
	h.messenger.EXPECT().UpdateDocument(gomock.Any(), "doxcn123", chat.DocumentPatch{AppendText: "web login"}).
		Return(errors.New("forbidden"))
	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg chat.Message) error {
			assert.Contains(t, msg.Text, "updating the doc failed")
			return nil
		})

	require.NoError(t, h.run(t, "G1", "ou_alice", "nc web login"))
	assert.True(t, h.env.Directory.HasChallenge("ctf24", "login"))
}

func TestNewChall_UnboundChat(t *testing.T) {
	h := newHarness(t, false)

	err := h.run(t, "G9", "ou_alice", "nc crypto baby-rsa")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ctf.ErrUnboundChat))
	assert.Contains(t, err.Error(), "not associated with an event")
	assert.Empty(t, h.env.Directory.Events())
}

func TestNewChall_MissingArgs(t *testing.T) {
	t.Run("arity disabled handler reports", func(t *testing.T) {
		h := newHarness(t, false)
		h.seed(t)

		err := h.run(t, "G1", "ou_alice", "nc crypto")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedCommand))
		assert.Contains(t, err.Error(), "missing name")
	})

	t.Run("arity enforced rejects before handler", func(t *testing.T) {
		h := newHarness(t, true)

		// No event is bound, so reaching the handler would fail differently.
		err := h.run(t, "G9", "ou_alice", "nc crypto")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMalformedCommand))
		assert.Contains(t, err.Error(), "expected 2 args got 1")
	})
}

func TestShowChat(t *testing.T) {
	h := newHarness(t, false)
	h.seed(t)

	h.messenger.EXPECT().SendMessage(gomock.Any(), "C1", chat.ShareChat("G1")).Return(nil)
	require.NoError(t, h.run(t, "C1", "ou_alice", "sc"))

	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.ShareChat("C1")).Return(nil)
	require.NoError(t, h.run(t, "G1", "ou_alice", "showchat baby-rsa"))

	err := h.run(t, "G1", "ou_alice", "showchat nope")
	assert.True(t, errors.Is(err, ctf.ErrUnknownChallenge))
	assert.Contains(t, err.Error(), "challenge does not exist")
}

func TestList_Empty(t *testing.T) {
	h := newHarness(t, false)
	_, err := h.env.Directory.NewEvent("ctf24")
	require.NoError(t, err)
	require.NoError(t, h.env.Directory.BindMainChat("ctf24", "G1"))

	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.Text("No challenges yet.")).Return(nil)
	require.NoError(t, h.run(t, "G1", "", "ls"))
}

func TestWork(t *testing.T) {
	h := newHarness(t, false)
	h.seed(t)

	h.messenger.EXPECT().GetUserDisplayName(gomock.Any(), "ou_alice").Return("alice", nil).Times(2)
	gomock.InOrder(
		h.messenger.EXPECT().SendMessage(gomock.Any(), "C1", chat.Text("alice is working on baby-rsa")).Return(nil),
		h.messenger.EXPECT().SendMessage(gomock.Any(), "C1", chat.Text("alice is already working on baby-rsa")).Return(nil),
	)

	require.NoError(t, h.run(t, "C1", "ou_alice", "w"))
	require.NoError(t, h.run(t, "C1", "ou_alice", "w"))

	_, c, err := h.env.Directory.ResolveChallenge("C1")
	require.NoError(t, err)
	assert.Equal(t, []ctf.Worker{{UserID: "ou_alice", DisplayName: "alice"}}, c.Workers())
}

func TestWork_MainChat(t *testing.T) {
	h := newHarness(t, false)
	h.seed(t)

	err := h.run(t, "G1", "ou_alice", "w")
	assert.True(t, errors.Is(err, ctf.ErrNotChallengeChat))
}

func TestMark(t *testing.T) {
	tests := []struct {
		text   string
		state  ctf.State
		notice string
	}{
		{"solved", ctf.StateSolved, "Congratulations! baby-rsa is solved."},
		{"solve", ctf.StateSolved, "Congratulations! baby-rsa is solved."},
		{"stuck", ctf.StateStuck, "baby-rsa is marked as stuck."},
		{"prog", ctf.StateProgress, "baby-rsa is marked as in progress."},
		{"progress", ctf.StateProgress, "baby-rsa is marked as in progress."},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			h := newHarness(t, false)
			h.seed(t)
			h.messenger.EXPECT().SendMessage(gomock.Any(), "C1", chat.Text(tt.notice)).Return(nil)

			require.NoError(t, h.run(t, "C1", "ou_alice", tt.text))

			_, c, err := h.env.Directory.ResolveChallenge("C1")
			require.NoError(t, err)
			assert.Equal(t, tt.state, c.State())
		})
	}
}

func TestMark_Unbound(t *testing.T) {
	h := newHarness(t, true)
	err := h.run(t, "G9", "ou_alice", "solved")
	assert.True(t, errors.Is(err, ctf.ErrUnboundChat))
}

func TestDoc(t *testing.T) {
	h := newHarness(t, false)
	h.seed(t)

	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.Text("No doc set for ctf24")).Return(nil)
	require.NoError(t, h.run(t, "G1", "", "doc"))

	h.messenger.EXPECT().GetDocument(gomock.Any(), "doxcn123").
		Return(&chat.Document{Token: "doxcn123", Title: "ctf24 notes"}, nil)
	h.messenger.EXPECT().SendMessage(gomock.Any(), "C1", chat.Text("Doc for ctf24 set to ctf24 notes")).Return(nil)
	require.NoError(t, h.run(t, "C1", "", "doc doxcn123"))

	h.messenger.EXPECT().SendMessage(gomock.Any(), "G1", chat.Text("Doc for ctf24: doxcn123")).Return(nil)
	require.NoError(t, h.run(t, "G1", "", "doc"))

	h.messenger.EXPECT().GetDocument(gomock.Any(), "bad").Return(nil, errors.New("not found"))
	err := h.run(t, "G1", "", "doc bad")
	require.Error(t, err)
	token, _ := h.env.Directory.Doc("ctf24")
	assert.Equal(t, "doxcn123", token)
}

func TestHelp(t *testing.T) {
	h := newHarness(t, false)
	h.messenger.EXPECT().SendMessage(gomock.Any(), "G9", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, msg chat.Message) error {
			assert.Equal(t, chat.MessageTypeText, msg.Type)
			assert.Contains(t, msg.Text, "newctf: create a new event with its main chat - newctf name")
			assert.Contains(t, msg.Text, "(aliases: solve)")
			return nil
		})
	require.NoError(t, h.run(t, "G9", "", "help"))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(ctf.ErrUnboundChat))
	assert.True(t, IsUserError(errors.Join(errors.New("x"), ErrMalformedCommand)))
	assert.False(t, IsUserError(errors.New("boom")))
}
