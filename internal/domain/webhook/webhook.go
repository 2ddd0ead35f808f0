package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	larkim "github.com/larksuite/oapi-sdk-go/v3/service/im/v1"
)

const (
	TypeURLVerification = "url_verification"
	TypeEventCallback   = "event_callback"

	EventTypeMessageReceive = "im.message.receive_v1"
)

var (
	ErrMissingToken         = errors.New("missing token")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnsupportedEventType = errors.New("unsupported event type")
	ErrMalformedPayload     = errors.New("malformed payload")
)

// Deduplicator suppresses re-delivered webhook events.
type Deduplicator interface {
	// IsNew reports whether eventID has not been seen yet and records it.
	// An empty eventID is always new and never recorded.
	IsNew(ctx context.Context, eventID string) (bool, error)
}

// Envelope is the outer webhook payload for both schema 1.0 and 2.0.
type Envelope struct {
	Schema    string          `json:"schema,omitempty"`
	Token     string          `json:"token,omitempty"`
	Type      string          `json:"type,omitempty"`
	Challenge string          `json:"challenge,omitempty"`
	Header    *Header         `json:"header,omitempty"`
	Event     json.RawMessage `json:"event,omitempty"`
}

// Header is the schema 2.0 event header.
type Header struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	Token      string `json:"token,omitempty"`
	CreateTime string `json:"create_time,omitempty"`
	AppID      string `json:"app_id,omitempty"`
	TenantKey  string `json:"tenant_key,omitempty"`
}

// Decode parses a raw webhook body.
func Decode(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &env, nil
}

// IsVerification reports whether the payload is a URL verification request.
// Anything else, including payloads without a type, is an event callback.
func (e *Envelope) IsVerification() bool {
	return e.Type == TypeURLVerification
}

// RequestToken returns the verification token carried by the payload.
func (e *Envelope) RequestToken() string {
	if e.Token != "" {
		return e.Token
	}
	if e.Header != nil {
		return e.Header.Token
	}
	return ""
}

func (e *Envelope) EventID() string {
	if e.Header == nil {
		return ""
	}
	return e.Header.EventID
}

func (e *Envelope) EventType() string {
	if e.Header == nil {
		return ""
	}
	return e.Header.EventType
}

// MessageReceiveEvent decodes the event body of a message receive callback.
func (e *Envelope) MessageReceiveEvent() (*larkim.P2MessageReceiveV1Data, error) {
	if len(e.Event) == 0 {
		return nil, fmt.Errorf("%w: event body is missing", ErrMalformedPayload)
	}
	var ev larkim.P2MessageReceiveV1Data
	if err := json.Unmarshal(e.Event, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if ev.Message == nil {
		return nil, fmt.Errorf("%w: message is missing", ErrMalformedPayload)
	}
	return &ev, nil
}

// ChatID digs the originating chat id out of the event body, even when the
// rest of the body does not decode as a message. It returns "" when no chat
// id can be found.
func (e *Envelope) ChatID() string {
	var partial struct {
		Message struct {
			ChatID string `json:"chat_id"`
		} `json:"message"`
	}
	// type mismatches elsewhere in the body still leave chat_id filled in
	_ = json.Unmarshal(e.Event, &partial)
	return partial.Message.ChatID
}

// Value dereferences an optional payload field.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PreferredID returns the user id when present, otherwise the open id.
func PreferredID(id *larkim.UserId) string {
	if id == nil {
		return ""
	}
	if u := Value(id.UserId); u != "" {
		return u
	}
	return Value(id.OpenId)
}

// SenderID identifies who sent the message.
func SenderID(ev *larkim.P2MessageReceiveV1Data) string {
	if ev.Sender == nil {
		return ""
	}
	return PreferredID(ev.Sender.SenderId)
}

// MentionOpenID returns the open id of a mentioned user.
func MentionOpenID(m *larkim.MentionEvent) string {
	if m == nil || m.Id == nil {
		return ""
	}
	return Value(m.Id.OpenId)
}

// MessageText extracts the text of a text message. Messages without text yield "".
func MessageText(msg *larkim.EventMessage) (string, error) {
	content := Value(msg.Content)
	if content == "" {
		return "", nil
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &body); err != nil {
		return "", fmt.Errorf("%w: message content: %v", ErrMalformedPayload, err)
	}
	return body.Text, nil
}
