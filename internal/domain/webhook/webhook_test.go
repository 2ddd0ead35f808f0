package webhook

import (
	"errors"
	"testing"

	larkcore "github.com/larksuite/oapi-sdk-go/v3/core"
	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("verification", func(t *testing.T) {
		env, err := Decode([]byte(`{"token":"tok","type":"url_verification","challenge":"c-1"}`))
		require.NoError(t, err)
		assert.True(t, env.IsVerification())
		assert.Equal(t, "tok", env.RequestToken())
		assert.Equal(t, "c-1", env.Challenge)
		assert.Empty(t, env.EventID())
	})

	t.Run("schema 2.0 callback without type", func(t *testing.T) {
		env, err := Decode([]byte(`{
			"schema": "2.0",
			"header": {"event_id": "ev-1", "event_type": "im.message.receive_v1", "token": "tok"},
			"event": {
				"sender": {"sender_id": {"open_id": "ou_alice", "user_id": "alice"}},
				"message": {
					"chat_id": "oc_1",
					"message_type": "text",
					"content": "{\"text\":\"@_user_1 ls\"}",
					"mentions": [{"key": "@_user_1", "id": {"open_id": "ou_bot"}, "name": "ctfbot"}]
				}
			}
		}`))
		require.NoError(t, err)
		assert.False(t, env.IsVerification())
		assert.Equal(t, "ev-1", env.EventID())
		assert.Equal(t, EventTypeMessageReceive, env.EventType())
		assert.Equal(t, "tok", env.RequestToken())

		ev, err := env.MessageReceiveEvent()
		require.NoError(t, err)
		assert.Equal(t, "alice", SenderID(ev))
		assert.Equal(t, "oc_1", Value(ev.Message.ChatId))
		assert.Equal(t, "oc_1", env.ChatID())
		require.Len(t, ev.Message.Mentions, 1)
		assert.Equal(t, "ou_bot", MentionOpenID(ev.Message.Mentions[0]))

		text, err := MessageText(ev.Message)
		require.NoError(t, err)
		assert.Equal(t, "@_user_1 ls", text)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := Decode([]byte(`{not json`))
		assert.True(t, errors.Is(err, ErrMalformedPayload))
	})
}

func TestMessageText(t *testing.T) {
	text, err := MessageText(&larkim.EventMessage{})
	require.NoError(t, err)
	assert.Empty(t, text)

	_, err = MessageText(&larkim.EventMessage{Content: larkcore.StringPtr("plain")})
	assert.True(t, errors.Is(err, ErrMalformedPayload))
}

func TestPreferredID(t *testing.T) {
	assert.Empty(t, PreferredID(nil))
	assert.Equal(t, "ou_x", PreferredID(&larkim.UserId{OpenId: larkcore.StringPtr("ou_x")}))
	assert.Equal(t, "u1", PreferredID(&larkim.UserId{
		OpenId: larkcore.StringPtr("ou_x"),
		UserId: larkcore.StringPtr("u1"),
	}))
	assert.Empty(t, SenderID(&larkim.P2MessageReceiveV1Data{}))
	assert.Empty(t, MentionOpenID(&larkim.MentionEvent{Key: larkcore.StringPtr("@_user_1")}))
}

func TestMessageReceiveEventMalformedBody(t *testing.T) {
	env := &Envelope{Header: &Header{EventID: "ev-1"}}
	_, err := env.MessageReceiveEvent()
	assert.True(t, errors.Is(err, ErrMalformedPayload))
	assert.Empty(t, env.ChatID())

	env.Event = []byte(`{"sender": {}}`)
	_, err = env.MessageReceiveEvent()
	assert.True(t, errors.Is(err, ErrMalformedPayload))

	// chat_id survives a body whose mentions are the wrong shape
	env.Event = []byte(`{"message": {"chat_id": "oc_1", "mentions": "oops"}}`)
	_, err = env.MessageReceiveEvent()
	assert.True(t, errors.Is(err, ErrMalformedPayload))
	assert.Equal(t, "oc_1", env.ChatID())

	env.Event = []byte(`"garbage"`)
	assert.Empty(t, env.ChatID())
}
